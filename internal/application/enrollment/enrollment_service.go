package enrollment

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/auth"
	"github.com/staffpoint/backend/internal/infrastructure/cache"
	"github.com/staffpoint/backend/internal/infrastructure/sms"
	"go.uber.org/zap"
)

const codeDigits = 1000000 // codes are 6 digits, zero-padded

const smsTemplate = "Your StaffPoint verification code is %s"

// EnrollmentService runs the SMS-gated enrollment flow against the master
// registry and owns account login.
type EnrollmentService struct {
	accountRepo identity.AccountRepository
	directory   identity.PersonDirectory
	otpStore    cache.OTPStore
	smsSender   sms.Sender
	jwtService  *auth.JWTService
	codeTTL     time.Duration
	clock       shared.Clock
	logger      *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	accountRepo identity.AccountRepository,
	directory identity.PersonDirectory,
	otpStore cache.OTPStore,
	smsSender sms.Sender,
	jwtService *auth.JWTService,
	codeTTL time.Duration,
	clock shared.Clock,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		accountRepo: accountRepo,
		directory:   directory,
		otpStore:    otpStore,
		smsSender:   smsSender,
		jwtService:  jwtService,
		codeTTL:     codeTTL,
		clock:       clock,
		logger:      logger,
	}
}

// Initiate verifies the person against the master registry and sends a
// verification code to their phone on file. Re-initiating replaces any
// pending code.
func (s *EnrollmentService) Initiate(ctx context.Context, input InitiateInput) (*InitiateResult, error) {
	person, err := s.directory.FindByEmployeeAndNationalID(ctx, input.EmployeeNumber, input.NationalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Enrollment attempt for unknown person",
				zap.Int("employee_number", input.EmployeeNumber))
			return nil, identity.ErrPersonNotFound
		}
		return nil, err
	}

	exists, err := s.accountRepo.ExistsByNationalID(ctx, input.NationalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrAlreadyRegistered
	}

	if !person.HasPhone() {
		s.logger.Warn("Enrollment blocked, no phone on file",
			zap.Int("employee_number", person.EmployeeNumber))
		return nil, identity.ErrPhoneUnavailable
	}

	code, err := generateCode()
	if err != nil {
		return nil, shared.NewDomainError("CODE_GENERATION_ERROR", "Failed to generate verification code")
	}

	issuedAt := s.clock.Now()
	if err := s.otpStore.Put(ctx, input.NationalID, cache.Challenge{Code: code, IssuedAt: issuedAt}); err != nil {
		return nil, err
	}

	if err := s.smsSender.Send(ctx, []string{person.Phone}, fmt.Sprintf(smsTemplate, code)); err != nil {
		return nil, err
	}

	s.logger.Info("Enrollment code sent",
		zap.Int("employee_number", person.EmployeeNumber))

	return &InitiateResult{
		MaskedPhone: maskPhone(person.Phone),
		ExpiresAt:   issuedAt.Add(s.codeTTL),
	}, nil
}

// Complete checks the verification code and creates the local account.
// The very first account in the system gets the ADMIN role.
func (s *EnrollmentService) Complete(ctx context.Context, input CompleteInput) (*AccountResult, error) {
	challenge, err := s.otpStore.Get(ctx, input.NationalID)
	if err != nil {
		return nil, err
	}
	if challenge == nil || subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(input.Code)) != 1 {
		s.logger.Warn("Enrollment completion with bad code",
			zap.Int("employee_number", input.EmployeeNumber))
		return nil, identity.ErrInvalidCode
	}

	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := identity.RoleUser
	if count == 0 {
		role = identity.RoleAdmin
	}

	account, err := identity.NewAccount(input.NationalID, input.EmployeeNumber, input.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.otpStore.Remove(ctx, input.NationalID); err != nil {
		s.logger.Warn("Failed to remove consumed challenge", zap.Error(err))
	}

	s.logger.Info("Account enrolled",
		zap.String("account_id", account.ID.String()),
		zap.Int("employee_number", account.EmployeeNumber),
		zap.String("role", string(account.Role)))

	return toAccountResult(account), nil
}

// Login authenticates an enrolled account and issues a token pair
func (s *EnrollmentService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	account, err := s.accountRepo.FindByNationalID(ctx, input.NationalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Login with wrong password",
			zap.String("account_id", account.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AccountID:      account.ID,
		NationalID:     account.NationalID,
		EmployeeNumber: account.EmployeeNumber,
		Role:           string(account.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Account logged in", zap.String("account_id", account.ID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Account:               *toAccountResult(account),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *EnrollmentService) Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		AccountID:      account.ID,
		NationalID:     account.NationalID,
		EmployeeNumber: account.EmployeeNumber,
		Role:           string(account.Role),
	})
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Account:               *toAccountResult(account),
	}, nil
}

// Me returns the account behind an authenticated session
func (s *EnrollmentService) Me(ctx context.Context, accountID uuid.UUID) (*AccountResult, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toAccountResult(account), nil
}

// generateCode produces a uniform 6-digit zero-padded code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeDigits))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// maskPhone hides all but the last two digits of a phone number
func maskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 2 {
		return phone
	}
	for i := 0; i < len(runes)-2; i++ {
		if runes[i] >= '0' && runes[i] <= '9' {
			runes[i] = '*'
		}
	}
	return string(runes)
}

func toAccountResult(account *identity.Account) *AccountResult {
	return &AccountResult{
		ID:             account.ID,
		NationalID:     account.NationalID,
		EmployeeNumber: account.EmployeeNumber,
		Role:           string(account.Role),
	}
}
