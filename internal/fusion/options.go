package fusion

import "github.com/mohammad-safakhou/spacebio/config"

const (
	DefaultMaxDocuments        = 8
	DefaultDocTextChars        = 4000
	DefaultImagesPerDoc        = 6
	DefaultMaxImagesPerSection = 3
	DefaultZeroOverlapKeep     = 1
	DefaultImageProxyPath      = "/api/image-proxy?url="
)

// Options bounds what is sent to the model and how image references are
// kept. Zero values select the defaults, except ZeroOverlapKeep where a
// negative value means zero.
type Options struct {
	MaxDocuments        int
	DocTextChars        int
	ImagesPerDoc        int
	MaxImagesPerSection int
	ZeroOverlapKeep     int
	ImageProxyPath      string
	Translate           bool
}

func (o Options) withDefaults() Options {
	if o.MaxDocuments <= 0 {
		o.MaxDocuments = DefaultMaxDocuments
	}
	if o.DocTextChars <= 0 {
		o.DocTextChars = DefaultDocTextChars
	}
	if o.ImagesPerDoc <= 0 {
		o.ImagesPerDoc = DefaultImagesPerDoc
	}
	if o.MaxImagesPerSection <= 0 {
		o.MaxImagesPerSection = DefaultMaxImagesPerSection
	}
	switch {
	case o.ZeroOverlapKeep == 0:
		o.ZeroOverlapKeep = DefaultZeroOverlapKeep
	case o.ZeroOverlapKeep < 0:
		o.ZeroOverlapKeep = 0
	}
	if o.ImageProxyPath == "" {
		o.ImageProxyPath = DefaultImageProxyPath
	}
	return o
}

// OptionsFromConfig maps the fusion config section onto Options.
func OptionsFromConfig(cfg config.FusionConfig) Options {
	keep := cfg.ZeroOverlapKeep
	if keep == 0 {
		keep = -1
	}
	return Options{
		MaxDocuments:        cfg.MaxDocuments,
		DocTextChars:        cfg.DocTextChars,
		ImagesPerDoc:        cfg.ImagesPerDoc,
		MaxImagesPerSection: cfg.MaxImagesPerSection,
		ZeroOverlapKeep:     keep,
		ImageProxyPath:      cfg.ImageProxyPath,
		Translate:           cfg.Translate,
	}
}
