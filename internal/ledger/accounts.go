package ledger

// Chart of accounts used by the transaction services. Accounts are free-form
// strings in storage; these are the ones the system itself posts to.
const (
	AccountCash             = "Cash"
	AccountReceivable       = "Accounts Receivable"
	AccountSalesRevenue     = "Sales Revenue"
	AccountCOGS             = "COGS"
	AccountInventory        = "Inventory"
	AccountShrinkageExpense = "Inventory Shrinkage Expense"
)

const accountMaxLen = 120
