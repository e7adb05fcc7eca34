package normalize

import (
	"strings"

	"github.com/conversehq/merchant-cli/internal/model"
)

// Artifact maps a raw upstream record to the canonical AI artifact shape.
func Artifact(raw map[string]any) model.AIArtifact {
	return model.AIArtifact{
		ID:              FirstString(raw, "id", "artifactId", "artifact_id"),
		Name:            FirstString(raw, "name", "artifactName", "title"),
		Provider:        FirstString(raw, "provider", "vendor", "source"),
		Authentication:  artifactAuth(raw),
		OtherAttributes: artifactAttributes(raw["otherAttributes"]),
		Access:          ArtifactAccess(FirstString(raw, "access", "visibility", "accessLevel")),
		CreatedBy:       FirstString(raw, "createdBy", "creator", "owner"),
		CreatedAt:       FirstDate(raw, "createdAt", "createdDate", "created_at"),
		UpdatedAt:       FirstDate(raw, "updatedAt", "updatedDate", "updated_at"),
	}
}

// ArtifactAccess normalizes the access field. Any unrecognized input
// defaults to PRIVATE.
func ArtifactAccess(raw string) model.ArtifactAccess {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PUBLIC":
		return model.AccessPublic
	case "RESTRICTED":
		return model.AccessRestricted
	default:
		return model.AccessPrivate
	}
}

func artifactAuth(raw map[string]any) model.ArtifactAuth {
	auth, ok := raw["authentication"].(map[string]any)
	if !ok {
		auth = AsObject(raw["authentication"])
	}
	if auth == nil {
		if auth, ok = raw["auth"].(map[string]any); !ok {
			return model.ArtifactAuth{}
		}
	}
	return model.ArtifactAuth{
		Type:   FirstString(auth, "type", "authType", "scheme"),
		Secret: FirstString(auth, "secret", "value", "token", "apiKey"),
	}
}

// artifactAttributes preserves the upstream ordering of the key/value list.
// Elements may be {key,value} objects or single-pair objects.
func artifactAttributes(v any) []model.ArtifactAttribute {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []model.ArtifactAttribute
	for _, el := range arr {
		obj, isObj := el.(map[string]any)
		if !isObj {
			continue
		}
		key := FirstString(obj, "key", "name")
		if key != "" {
			out = append(out, model.ArtifactAttribute{
				Key:   key,
				Value: FirstString(obj, "value", "val"),
			})
			continue
		}
		// Single-pair object form: {"temperature": "0.2"}.
		if len(obj) == 1 {
			for k := range obj {
				out = append(out, model.ArtifactAttribute{
					Key:   k,
					Value: FirstString(obj, k),
				})
			}
		}
	}
	return out
}
