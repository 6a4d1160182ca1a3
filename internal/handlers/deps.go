package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/pennyweek/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	AuthSvc         authService
	UserSvc         userService
	TransactionSvc  transactionService
	RecurringSvc    recurringService
	BudgetSvc       budgetService
}
