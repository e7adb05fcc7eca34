package model

// ArtifactAccess is the visibility of an AI artifact. Anything unrecognized
// on input normalizes to AccessPrivate.
type ArtifactAccess string

const (
	AccessPublic     ArtifactAccess = "PUBLIC"
	AccessPrivate    ArtifactAccess = "PRIVATE"
	AccessRestricted ArtifactAccess = "RESTRICTED"
)

// ArtifactAuth holds an artifact's authentication settings.
type ArtifactAuth struct {
	Type   string `json:"type"`
	Secret string `json:"secret"`
}

// ArtifactAttribute is a single entry in an artifact's ordered attribute
// list. Keys are treated as immutable once added; edits replace the value.
type ArtifactAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AIArtifact is a canonical AI artifact (model endpoint, connector, etc.).
type AIArtifact struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Provider        string              `json:"provider"`
	Authentication  ArtifactAuth        `json:"authentication"`
	OtherAttributes []ArtifactAttribute `json:"otherAttributes"`
	Access          ArtifactAccess      `json:"access"`
	CreatedBy       string              `json:"createdBy"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
}
