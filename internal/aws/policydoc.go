package aws

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// decodeOrRaw returns the pretty-printed policy document, or the document
// untouched when it cannot be decoded
func (f *Facade) decodeOrRaw(document string) string {
	decoded, err := decodePolicy(document)
	if err != nil {
		f.log.Debug().Err(err).Int("length", len(document)).Msg("keeping policy document undecoded")
		return document
	}
	return decoded
}

// decodePolicy turns a policy document as returned by IAM (URL-encoded JSON,
// sometimes wrapped in quotes) into indented JSON
func decodePolicy(policyDocument string) (string, error) {
	docToUse := policyDocument
	if strings.Contains(policyDocument, "%") {
		unescaped, err := url.QueryUnescape(policyDocument)
		if err != nil {
			return "", errors.Wrap(err, "error unescaping policy document")
		}
		docToUse = unescaped
	}

	var policy interface{}

	if err := json.Unmarshal([]byte(docToUse), &policy); err != nil {
		if !strings.HasPrefix(docToUse, "\"") || !strings.HasSuffix(docToUse, "\"") || len(docToUse) < 2 {
			return "", errors.Wrap(err, "error parsing policy document")
		}

		unwrapped := docToUse[1 : len(docToUse)-1]
		unwrapped = strings.ReplaceAll(unwrapped, "\\\"", "\"")
		unwrapped = strings.ReplaceAll(unwrapped, "\\\\", "\\")

		if err := json.Unmarshal([]byte(unwrapped), &policy); err != nil {
			return "", errors.Wrap(err, "error parsing policy document after unwrapping")
		}
	}

	// a quoted document parses as a JSON string holding the real document
	if inner, ok := policy.(string); ok {
		if err := json.Unmarshal([]byte(inner), &policy); err != nil {
			return "", errors.Wrap(err, "error parsing quoted policy document")
		}
	}

	pretty, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "error prettifying policy document")
	}

	return string(pretty), nil
}
