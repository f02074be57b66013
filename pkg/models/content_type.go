package models

// Field declares one custom field of a content type: the ACF key it is
// stored under and the label list/detail pages show for it.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ContentType describes one declared category of post: where to fetch it,
// how to label it, where it lives in the site's routing, and which custom
// fields to extract. Descriptors are static configuration and never
// mutated.
type ContentType struct {
	Key        string  `json:"key"`
	Endpoint   string  `json:"endpoint"`
	Label      string  `json:"label"`
	ListPath   string  `json:"list_path"`
	DetailPath string  `json:"detail_path"`
	Fields     []Field `json:"fields"`
}
