package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/auth"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/models"
)

// Registrar is the slice of the ledger service used by AuthHandler.
type Registrar interface {
	OpenAccount(customer *models.Customer, accountType string, initialDeposit decimal.Decimal) *models.Account
	Login(username, password string) *models.Session
	IsUsernameTaken(username string) bool
	IsEmailTaken(email string) bool
	IsPhoneNumberTaken(phone string) bool
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	ledger Registrar
	tokens *auth.TokenIssuer
}

func NewAuthHandler(ledger Registrar, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{ledger: ledger, tokens: tokens}
}

type RegisterRequest struct {
	Username       string          `json:"username" validate:"required,min=3"`
	Password       string          `json:"password" validate:"required,min=8"`
	FirstName      string          `json:"firstName" validate:"required,alpha"`
	LastName       string          `json:"lastName" validate:"required,alpha"`
	Email          string          `json:"email" validate:"required,email"`
	PhoneNumber    string          `json:"phoneNumber" validate:"required,numeric,min=7"`
	AccountType    string          `json:"accountType" validate:"required,oneof=savings current"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// Register creates a customer and opens their account with the initial
// deposit, returning a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := ValidateRequest(req); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return
	}
	if req.InitialDeposit.IsNegative() {
		RespondWithError(c, http.StatusBadRequest, "Initial deposit cannot be negative")
		return
	}
	if h.ledger.IsUsernameTaken(req.Username) {
		RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	}
	if h.ledger.IsEmailTaken(req.Email) {
		RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	}
	if h.ledger.IsPhoneNumberTaken(req.PhoneNumber) {
		RespondWithError(c, http.StatusConflict, "Phone number already registered")
		return
	}

	customer := &models.Customer{
		Username:     req.Username,
		PasswordHash: req.Password, // hashed by the ledger service
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
	}
	account := h.ledger.OpenAccount(customer, req.AccountType, req.InitialDeposit)
	if account == nil {
		// A concurrent registration can win the uniqueness race between the
		// pre-checks and the insert; re-probing tells that apart from a
		// store fault.
		switch {
		case h.ledger.IsUsernameTaken(req.Username):
			RespondWithError(c, http.StatusConflict, "Username already taken")
		case h.ledger.IsEmailTaken(req.Email):
			RespondWithError(c, http.StatusConflict, "Email already registered")
		case h.ledger.IsPhoneNumberTaken(req.PhoneNumber):
			RespondWithError(c, http.StatusConflict, "Phone number already registered")
		default:
			RespondWithError(c, http.StatusInternalServerError, "Failed to open account")
		}
		return
	}

	token, err := h.tokens.Generate(customer.ID, customer.Username)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: token, Account: account})
}

// Login authenticates a customer and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := ValidateRequest(req); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return
	}

	session := h.ledger.Login(req.Username, req.Password)
	if session == nil {
		RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(session.Customer.ID, session.Customer.Username)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, Account: session.Account})
}
