package chat

import (
	"strconv"
	"strings"

	"go-erp/internal/common/models"
	"go-erp/pkg/utils"
)

// Action is the verb of a parsed command or callback token.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Intent is one parsed approval command. Exactly one of Number or
// DocID is set: text commands carry the human-facing number, callback
// tokens carry the document id. DocType is empty when the user did not
// name a type.
type Intent struct {
	Action  Action
	DocType models.DocType
	Number  int
	DocID   string
}

// docTypeAliases maps the words people type to collections.
var docTypeAliases = map[string]models.DocType{
	"order":   models.DocTypeOrder,
	"payment": models.DocTypeOrder,
	"permit":  models.DocTypePermit,
	"exit":    models.DocTypePermit,
	"bijak":   models.DocTypeBijak,
}

// ParseCommand recognizes "approve 1001", "reject permit 1003" and the
// typed variants. Digits are normalized first, so localized keyboards
// work. Returns nil when the text is not an approval command.
func ParseCommand(text string) *Intent {
	fields := strings.Fields(strings.ToLower(utils.NormalizeDigits(text)))
	if len(fields) < 2 || len(fields) > 3 {
		return nil
	}

	var action Action
	switch fields[0] {
	case "approve":
		action = ActionApprove
	case "reject":
		action = ActionReject
	default:
		return nil
	}

	intent := &Intent{Action: action}
	rest := fields[1:]
	if docType, ok := docTypeAliases[rest[0]]; ok {
		intent.DocType = docType
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return nil
	}

	number, err := strconv.Atoi(rest[0])
	if err != nil || number <= 0 {
		return nil
	}
	intent.Number = number
	return intent
}

// ParseCallback decodes an inline-button token of the form
// "approve:order:<id>". Returns nil for anything else.
func ParseCallback(data string) *Intent {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return nil
	}

	var action Action
	switch parts[0] {
	case "approve":
		action = ActionApprove
	case "reject":
		action = ActionReject
	default:
		return nil
	}

	docType := models.DocType(parts[1])
	switch docType {
	case models.DocTypeOrder, models.DocTypePermit, models.DocTypeBijak:
	default:
		return nil
	}

	return &Intent{Action: action, DocType: docType, DocID: parts[2]}
}
