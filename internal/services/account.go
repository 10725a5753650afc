package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/utils"

	"github.com/sirupsen/logrus"
)

type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *models.Customer) error
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	BillingAddress string
}

type AccountService struct {
	customers CustomerStore
	audit     Auditor
	log       *logrus.Logger
}

func NewAccountService(customers CustomerStore, audit Auditor, log *logrus.Logger) *AccountService {
	return &AccountService{customers: customers, audit: audit, log: log}
}

// Register crée un client ; l'email doit être unique
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Customer, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fe := fieldErrors{}
	fe.require("customerName", in.Name, "Customer name is required.")
	fe.require("email", in.Email, "Email is required.")
	fe.require("password", in.Password, "Password is required.")
	if err := fe.err(); err != nil {
		return nil, err
	}

	_, err := s.customers.GetCustomerByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("vérification email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash mot de passe: %w", err)
	}

	customer := &models.Customer{
		Name:           strings.TrimSpace(in.Name),
		Email:          in.Email,
		PasswordHash:   hash,
		Phone:          strings.TrimSpace(in.Phone),
		BillingAddress: strings.TrimSpace(in.BillingAddress),
		Role:           models.RoleCustomer,
	}
	if err := s.customers.CreateCustomer(ctx, customer); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("création client: %w", err)
	}

	who := identityOf(customer)
	s.audit.Record(ctx, auditEntry(who, ActionRegister, ResourceCustomer, strconv.FormatInt(customer.ID, 10), nil))
	s.log.WithFields(logrus.Fields{"customer_id": customer.ID, "email": customer.Email}).Info("👤 Client enregistré")
	return customer, nil
}

// Authenticate vérifie les identifiants et retourne l'identité de session
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	customer, err := s.customers.GetCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.audit.Record(ctx, auditEntry(models.Identity{Email: email}, ActionLoginFailed, ResourceCustomer, "", ErrInvalidCredentials))
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, fmt.Errorf("recherche client: %w", err)
	}

	ok, err := utils.VerifyPassword(password, customer.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			s.log.WithError(err).WithField("customer_id", customer.ID).Warn("⚠️ Hash de mot de passe illisible")
		}
		s.audit.Record(ctx, auditEntry(models.Identity{CustomerID: customer.ID, Email: email}, ActionLoginFailed, ResourceCustomer, strconv.FormatInt(customer.ID, 10), ErrInvalidCredentials))
		return models.Identity{}, ErrInvalidCredentials
	}

	who := identityOf(customer)
	s.audit.Record(ctx, auditEntry(who, ActionLoginSuccess, ResourceCustomer, strconv.FormatInt(customer.ID, 10), nil))
	return who, nil
}

func identityOf(c *models.Customer) models.Identity {
	return models.Identity{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Role:       c.Role,
	}
}
