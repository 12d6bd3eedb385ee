package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/auth"
)

// Service combines the ledger slices the HTTP surface needs;
// *ledger.Service satisfies it.
type Service interface {
	Registrar
	Ledger
}

// NewRouter builds the gin router for the banking API.
func NewRouter(svc Service, tokens *auth.TokenIssuer) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(svc, tokens)
	accountHandler := NewAccountHandler(svc)

	v1 := router.Group("/v1")
	{
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)
	}

	account := v1.Group("/account", AuthMiddleware(tokens))
	{
		account.GET("", accountHandler.GetAccount)
		account.GET("/transactions", accountHandler.History)
		account.POST("/deposit", accountHandler.Deposit)
		account.POST("/withdraw", accountHandler.Withdraw)
		account.POST("/transfer", accountHandler.Transfer)
	}

	return router
}
