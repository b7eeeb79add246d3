package branding

import (
	"fmt"

	"cssd/document"
	"cssd/style"
)

const (
	bannerSelector     = ".ext-banner-logo"
	backgroundSelector = ".ext-background-image"
	imageProperty      = "background-image"
)

// Seed puts tenant images into design so it starts from current branding.
// Selectors and properties are added when missing, parts tenant did not
// customize are left alone. Original document is not changed.
func Seed(doc *document.Document, info Info) (*document.Document, error) {
	var err error
	for _, s := range []struct{ selector, link string }{
		{bannerSelector, info.BannerLogo},
		{backgroundSelector, info.BackgroundImage},
	} {
		if s.link == "" {
			continue
		}
		if doc, err = setImage(doc, s.selector, s.link); err != nil {
			return nil, fmt.Errorf("unable to seed '%s': %w", s.selector, err)
		}
	}
	return doc, nil
}

func setImage(doc *document.Document, selector, link string) (*document.Document, error) {
	var err error
	if !doc.Has(selector) {
		if doc, err = doc.AddSelector(selector); err != nil {
			return nil, err
		}
	}
	if _, ok := doc.Value(selector, imageProperty); !ok {
		if doc, err = doc.AddProperty(selector, imageProperty); err != nil {
			return nil, err
		}
	}
	return doc.SetProperty(selector, imageProperty, style.URL(link))
}
