package chat

import (
	"testing"

	"go-erp/internal/common/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Intent
	}{
		{"untyped approve", "approve 1001", &Intent{Action: ActionApprove, Number: 1001}},
		{"untyped reject", "reject 1002", &Intent{Action: ActionReject, Number: 1002}},
		{"typed payment", "approve payment 1001", &Intent{Action: ActionApprove, DocType: models.DocTypeOrder, Number: 1001}},
		{"typed order alias", "approve order 1001", &Intent{Action: ActionApprove, DocType: models.DocTypeOrder, Number: 1001}},
		{"typed permit", "reject permit 1003", &Intent{Action: ActionReject, DocType: models.DocTypePermit, Number: 1003}},
		{"typed exit alias", "approve exit 1003", &Intent{Action: ActionApprove, DocType: models.DocTypePermit, Number: 1003}},
		{"typed bijak", "approve bijak 1004", &Intent{Action: ActionApprove, DocType: models.DocTypeBijak, Number: 1004}},
		{"mixed case", "Approve Payment 1001", &Intent{Action: ActionApprove, DocType: models.DocTypeOrder, Number: 1001}},
		{"persian digits", "approve ۱۰۰۱", &Intent{Action: ActionApprove, Number: 1001}},
		{"not a command", "hello there", nil},
		{"verb only", "approve", nil},
		{"non-numeric", "approve abc", nil},
		{"zero number", "approve 0", nil},
		{"unknown type word", "approve invoice 1001", nil},
		{"trailing words", "approve payment 1001 now", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
			if got == nil {
				return
			}
			if *got != *tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name string
		data string
		want *Intent
	}{
		{"approve order", "approve:order:abc-123", &Intent{Action: ActionApprove, DocType: models.DocTypeOrder, DocID: "abc-123"}},
		{"reject bijak", "reject:bijak:xyz", &Intent{Action: ActionReject, DocType: models.DocTypeBijak, DocID: "xyz"}},
		{"unknown verb", "snooze:order:abc", nil},
		{"unknown type", "approve:invoice:abc", nil},
		{"missing id", "approve:order:", nil},
		{"garbage", "whatever", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCallback(tt.data)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseCallback(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseCallback(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}
