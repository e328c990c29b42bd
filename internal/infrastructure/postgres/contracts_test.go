package postgres

import (
	"finsight/internal/domain/account"
	"finsight/internal/domain/insight"
	"finsight/internal/domain/transaction"
	"finsight/internal/domain/user"
)

// Each repository must satisfy its domain interface; a drift in either
// direction fails compilation here instead of in cmd wiring.
var (
	_ user.Repository        = (*UserRepository)(nil)
	_ account.Repository     = (*AccountRepository)(nil)
	_ transaction.Repository = (*TransactionRepository)(nil)
	_ insight.Repository     = (*InsightRepository)(nil)
)
