package approval

import (
	"go-erp/internal/common/models"
	"go-erp/internal/features/role"
)

// Stage is one step of a document type's approval chain: the status a
// document waits in, the role and capability gating the approval out of
// it, and the status the approval moves it to.
type Stage struct {
	Status     models.Status
	GateRole   models.Role
	Capability string
	Next       models.Status
}

// chains maps every document type to its ordered pending stages. The
// last stage's Next is the type's terminal "fully approved" status.
var chains = map[models.DocType][]Stage{
	models.DocTypeOrder: {
		{models.StatusPendingFinancialReview, models.RoleFinanceManager, role.CapPaymentApproveFinancial, models.StatusApprovedFinancial},
		{models.StatusApprovedFinancial, models.RoleCEO, role.CapPaymentApproveManagement, models.StatusApprovedManagement},
		{models.StatusApprovedManagement, models.RoleTreasurer, role.CapPaymentApproveFinal, models.StatusApprovedFinal},
	},
	models.DocTypePermit: {
		{models.StatusPendingCEO, models.RoleCEO, role.CapExitApproveCEO, models.StatusApprovedCEO},
		{models.StatusApprovedCEO, models.RoleFactoryManager, role.CapExitApproveFactory, models.StatusApprovedFactory},
		{models.StatusApprovedFactory, models.RoleWarehouseKeeper, role.CapExitApproveWarehouse, models.StatusApprovedWarehouse},
		{models.StatusApprovedWarehouse, models.RoleSecurityHead, role.CapExitApproveSecurity, models.StatusExited},
	},
	models.DocTypeBijak: {
		{models.StatusPending, models.RoleCEO, role.CapBijakApprove, models.StatusApproved},
	},
}

// GateRoles enumerates every role that gates at least one stage of any
// chain, deduplicated, in chain order.
func GateRoles() []models.Role {
	seen := map[models.Role]bool{}
	var roles []models.Role
	for _, docType := range []models.DocType{models.DocTypeOrder, models.DocTypePermit, models.DocTypeBijak} {
		for _, st := range chains[docType] {
			if !seen[st.GateRole] {
				seen[st.GateRole] = true
				roles = append(roles, st.GateRole)
			}
		}
	}
	return roles
}

// InitialStatus is the status a freshly created document starts in.
func InitialStatus(docType models.DocType) models.Status {
	return chains[docType][0].Status
}

// StageFor returns the stage a document in the given status is waiting
// on, or false when the status is terminal or unknown.
func StageFor(docType models.DocType, status models.Status) (Stage, bool) {
	for _, st := range chains[docType] {
		if st.Status == status {
			return st, true
		}
	}
	return Stage{}, false
}

// IsTerminal reports whether no further transition is defined for the
// status: the fully approved end of the chain, or rejected.
func IsTerminal(docType models.DocType, status models.Status) bool {
	if status == models.StatusRejected {
		return true
	}
	_, ok := StageFor(docType, status)
	return !ok
}

// NextRole resolves who must act on a document in the given status, or
// "" when the status is terminal.
func NextRole(docType models.DocType, status models.Status) models.Role {
	if st, ok := StageFor(docType, status); ok {
		return st.GateRole
	}
	return ""
}

// Transition computes the approve step out of the current status. The
// second return is the role gating the new status ("" when the new
// status is terminal). ok is false when the status is terminal and the
// action is a no-op.
func Transition(docType models.DocType, status models.Status) (next models.Status, nextRole models.Role, ok bool) {
	st, found := StageFor(docType, status)
	if !found {
		return "", "", false
	}
	return st.Next, NextRole(docType, st.Next), true
}
