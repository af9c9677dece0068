package auth

import (
	"context"
	"errors"
	"strings"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/ids"
	"inventory-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const companyIDAttempts = 5

type RegisterInput struct {
	CompanyName string
	GSTNumber   string
	Address     string
	Phone       string
	AdminName   string
	Email       string
	Password    string
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates a company and its first admin user in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Company, *models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	var company models.Company
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Company{}).Where("gst_number = ?", in.GSTNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("a company with GST number %s is already registered", in.GSTNumber)
		}
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("email %s is already registered", in.Email)
		}

		id, err := s.freeCompanyID(tx)
		if err != nil {
			return err
		}
		company = models.Company{
			ID:        id,
			Name:      strings.TrimSpace(in.CompanyName),
			GSTNumber: in.GSTNumber,
			Address:   in.Address,
			Email:     in.Email,
			Phone:     in.Phone,
		}
		if err := tx.Create(&company).Error; err != nil {
			return apperror.FromDB(err, "company")
		}

		user = models.User{
			CompanyID:    company.ID,
			Name:         strings.TrimSpace(in.AdminName),
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return apperror.FromDB(err, "user")
		}
		return nil
	})
	if err != nil {
		return nil, nil, apperror.FromDB(err, "company")
	}
	return &company, &user, nil
}

func (s *Service) freeCompanyID(tx *gorm.DB) (string, error) {
	for i := 0; i < companyIDAttempts; i++ {
		id, err := ids.CompanyID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a company id")
}

// Authenticate checks credentials; the error does not tell which part was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("user is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	return &user, nil
}

func (s *Service) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Company").First(&user, userID).Error; err != nil {
		return nil, apperror.FromDB(err, "user")
	}
	return &user, nil
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// CreateUser adds a user to the caller's company.
func (s *Service) CreateUser(ctx context.Context, p Principal, in CreateUserInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{
		CompanyID:    p.CompanyID,
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperror.FromDB(err, "user")
	}
	return &user, nil
}

func (s *Service) ListUsers(ctx context.Context, companyID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("company_id = ?", companyID).Order("id").Find(&users).Error
	return users, err
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
