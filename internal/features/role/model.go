package role

import "go-erp/internal/common/models"

// Capability codes. One per approval gate plus the non-gate surfaces.
const (
	CapPaymentCreate            = "payment.create"
	CapPaymentApproveFinancial  = "payment.approve_financial"
	CapPaymentApproveManagement = "payment.approve_management"
	CapPaymentApproveFinal      = "payment.approve_final"
	CapExitCreate               = "exit.create"
	CapExitApproveCEO           = "exit.approve_ceo"
	CapExitApproveFactory       = "exit.approve_factory"
	CapExitApproveWarehouse     = "exit.approve_warehouse"
	CapExitApproveSecurity      = "exit.approve_security"
	CapBijakCreate              = "bijak.create"
	CapBijakApprove             = "bijak.approve"
	CapReportView               = "report.view"
	CapDocumentsManage          = "documents.manage"
	CapUsersManage              = "users.manage"
	CapSettingsManage           = "settings.manage"
)

// criticalCaps are mandatory approval gates re-enabled for their owning
// role after every merge, so a corrupt settings object can never
// silently disable a required approval step.
var criticalCaps = map[models.Role][]string{
	models.RoleFinanceManager: {CapPaymentApproveFinancial},
	models.RoleCEO:            {CapPaymentApproveManagement, CapBijakApprove},
	models.RoleSecurityHead:   {CapExitApproveSecurity},
}

// defaults are the hard-coded per-role capability sets that stored
// overrides are overlaid on.
var defaults = map[models.Role]map[string]bool{
	models.RoleFinanceManager: {
		CapPaymentCreate:           true,
		CapPaymentApproveFinancial: true,
		CapReportView:              true,
	},
	models.RoleCEO: {
		CapPaymentApproveManagement: true,
		CapExitApproveCEO:           true,
		CapBijakApprove:             true,
		CapReportView:               true,
	},
	models.RoleTreasurer: {
		CapPaymentApproveFinal: true,
		CapReportView:          true,
	},
	models.RoleFactoryManager: {
		CapExitCreate:         true,
		CapExitApproveFactory: true,
		CapBijakCreate:        true,
		CapReportView:         true,
	},
	models.RoleWarehouseKeeper: {
		CapExitApproveWarehouse: true,
		CapBijakCreate:          true,
	},
	models.RoleSecurityHead: {
		CapExitApproveSecurity: true,
	},
	models.RoleStaff: {
		CapPaymentCreate: true,
		CapExitCreate:    true,
	},
}

// Roles is the fixed enumeration exposed by the API.
var Roles = []models.Role{
	models.RoleAdmin,
	models.RoleFinanceManager,
	models.RoleCEO,
	models.RoleTreasurer,
	models.RoleFactoryManager,
	models.RoleWarehouseKeeper,
	models.RoleSecurityHead,
	models.RoleStaff,
}
