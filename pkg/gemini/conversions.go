package gemini

import (
	"encoding/base64"
	"fmt"

	"github.com/nanobanana/agent/pkg/domain"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// convertTurns maps completed conversation turns into the model's
// role/parts shape. Image parts are unpacked from their data URIs into
// inlineData blocks.
func convertTurns(turns []domain.Turn) ([]content, error) {
	contents := make([]content, 0, len(turns))
	for _, turn := range turns {
		role := roleUser
		if turn.Role == domain.RoleAgent {
			role = roleModel
		}

		parts := make([]part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			converted, err := convertPart(p)
			if err != nil {
				return nil, fmt.Errorf("converting turn %d: %w", turn.ID, err)
			}
			parts = append(parts, converted)
		}

		contents = append(contents, content{Role: role, Parts: parts})
	}
	return contents, nil
}

func convertPart(p domain.ContentPart) (part, error) {
	switch p.Type {
	case domain.ContentPartTypeText:
		return part{Text: p.Data}, nil
	case domain.ContentPartTypeImage:
		mimeType, data, err := domain.DecodeDataURL(p.Data)
		if err != nil {
			return part{}, fmt.Errorf("decoding image part: %w", err)
		}
		return part{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}}, nil
	default:
		return part{}, fmt.Errorf("unknown content part type %q", p.Type)
	}
}
