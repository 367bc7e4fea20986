package internal

// ModelOption pairs a display label with the identifier sent to the API.
type ModelOption struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// DefaultModel is selected for every new session unless configured otherwise.
const DefaultModel = "mistral-large-latest"

// Models is the fixed catalog offered to users, in display order.
var Models = []ModelOption{
	{Label: "Mistral Large", ID: "mistral-large-latest"},
	{Label: "Pixtral Large", ID: "pixtral-large-latest"},
	{Label: "Mistral Moderation", ID: "mistral-moderation-latest"},
	{Label: "Ministral 3B", ID: "ministral-3b-latest"},
	{Label: "Ministral 8B", ID: "ministral-8b-latest"},
	{Label: "Open Mistral Nemo", ID: "open-mistral-nemo"},
	{Label: "Mistral Small", ID: "mistral-small-latest"},
	{Label: "Codestral", ID: "codestral-latest"},
}

// IsKnownModel reports whether id belongs to the catalog.
func IsKnownModel(id string) bool {
	for _, m := range Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ModelByLabel resolves a display label such as "Mistral Small" to its identifier.
func ModelByLabel(label string) (string, bool) {
	for _, m := range Models {
		if m.Label == label {
			return m.ID, true
		}
	}
	return "", false
}
