package notification

import (
	"fmt"

	"go-erp/internal/features/approval"
)

// Announce fans out the follow-up of one executed transition: the next
// gate role gets a task card while the chain is still running, and the
// requester gets a plain outcome message once it ends.
func Announce(d Dispatcher, result *approval.Result, label, requester string, doc interface{}) {
	card := &Card{
		DocType:  result.DocType,
		DocID:    result.DocID,
		Number:   result.Number,
		Document: doc,
	}

	switch {
	case result.Rejected:
		d.NotifyUser(requester,
			fmt.Sprintf("%s rejected", label),
			fmt.Sprintf("%s #%d was rejected", label, result.Number), nil)
	case result.Terminal:
		d.NotifyUser(requester,
			fmt.Sprintf("%s approved", label),
			fmt.Sprintf("%s #%d passed every approval stage", label, result.Number), nil)
	default:
		d.NotifyRole(result.NextRole,
			fmt.Sprintf("%s awaiting approval", label),
			fmt.Sprintf("%s #%d awaits your approval", label, result.Number), card)
	}
}
