package persist

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"cssd/generator"
	"cssd/style"
)

// DefaultQueryParam is the query parameter carrying state token.
const DefaultQueryParam = "s"

// ShareURL returns base with state token put into query parameter param,
// other parameters are preserved.
func ShareURL(base, param string, s State) (string, error) {
	if param == "" {
		param = DefaultQueryParam
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("bad base url '%s': %w", base, err)
	}
	token, err := Encode(s)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL restores state carried by link. Links without token and links
// which cannot be parsed produce empty state, same as bad tokens.
func FromURL(reg *style.Registry, link, param string, defaults generator.Options, log *zap.Logger) State {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = style.Default()
	}
	if param == "" {
		param = DefaultQueryParam
	}
	u, err := url.Parse(link)
	if err != nil {
		log.Warn("Unable to parse link, starting from scratch", zap.String("link", link), zap.Error(err))
		return Empty(reg, defaults)
	}
	token := u.Query().Get(param)
	if token == "" {
		log.Debug("No state in link", zap.String("param", param))
		return Empty(reg, defaults)
	}
	return Decode(reg, token, defaults, log)
}
