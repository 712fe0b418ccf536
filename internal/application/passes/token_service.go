package passes

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/skip2/go-qrcode"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultQRSize = 256

// TokenService manages the QR token lifecycle: issuance with same-day reuse,
// presentation checks and per-action consumption.
type TokenService struct {
	tokenRepo passes.TokenRepository
	directory identity.PersonDirectory
	clock     shared.Clock
	logger    *zap.Logger
}

// NewTokenService creates a new token service
func NewTokenService(
	tokenRepo passes.TokenRepository,
	directory identity.PersonDirectory,
	clock shared.Clock,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		directory: directory,
		clock:     clock,
		logger:    logger,
	}
}

// Issue returns the employee's token for the current calendar day, creating
// one if no presentable token exists. Issuing twice on the same day returns
// the same token until it is consumed for both actions.
func (s *TokenService) Issue(ctx context.Context, input IssueTokenInput) (*TokenResult, error) {
	person, err := s.directory.FindByEmployeeAndNationalID(ctx, input.EmployeeNumber, input.NationalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Token requested for unknown person",
				zap.Int("employee_number", input.EmployeeNumber))
			return nil, identity.ErrPersonNotFound
		}
		return nil, err
	}

	now := s.clock.Now()

	existing, err := s.tokenRepo.FindCurrentByEmployee(ctx, person.EmployeeNumber, now)
	if err == nil && existing.IsPresentable(now) {
		s.logger.Debug("Reusing same-day token",
			zap.Int("employee_number", person.EmployeeNumber),
			zap.String("token", existing.Token))
		return s.toResult(existing, true), nil
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	token := passes.NewQRToken(person.EmployeeNumber, person.NationalID,
		person.FirstName, person.LastName, input.IP, now)

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		// A concurrent issuance won the day slot; serve the surviving row.
		if errors.Is(err, shared.ErrAlreadyExists) {
			survivor, findErr := s.tokenRepo.FindCurrentByEmployee(ctx, person.EmployeeNumber, now)
			if findErr != nil {
				return nil, findErr
			}
			return s.toResult(survivor, true), nil
		}
		s.logger.Error("Failed to store QR token", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Issued QR token",
		zap.Int("employee_number", person.EmployeeNumber),
		zap.String("token", token.Token))

	return s.toResult(token, false), nil
}

// FetchIfPresentable returns the token when it can still be shown to the
// scanner. Unknown, expired and fully consumed tokens all map to
// ErrInvalidToken.
func (s *TokenService) FetchIfPresentable(ctx context.Context, tokenStr string) (*passes.QRToken, error) {
	token, err := s.tokenRepo.FindByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, passes.ErrInvalidToken
		}
		return nil, err
	}
	if !token.IsPresentable(s.clock.Now()) {
		return nil, passes.ErrInvalidToken
	}
	return token, nil
}

// ConsumeForCheckIn sets the check-in flag on the token. The flag set is
// atomic at the store and idempotent.
func (s *TokenService) ConsumeForCheckIn(ctx context.Context, tokenStr string) error {
	return s.tokenRepo.MarkUsedForCheckIn(ctx, tokenStr)
}

// ConsumeForCheckOut sets the check-out flag on the token
func (s *TokenService) ConsumeForCheckOut(ctx context.Context, tokenStr string) error {
	return s.tokenRepo.MarkUsedForCheckOut(ctx, tokenStr)
}

// RenderPNG renders a presentable token as a QR code PNG image
func (s *TokenService) RenderPNG(ctx context.Context, input RenderInput) ([]byte, error) {
	token, err := s.FetchIfPresentable(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	size := input.Size
	if size <= 0 {
		size = defaultQRSize
	}

	png, err := qrcode.Encode(token.Token, qrcode.Medium, size)
	if err != nil {
		s.logger.Error("Failed to encode QR image", zap.Error(err))
		return nil, shared.NewDomainError("QR_ENCODE_ERROR", "Failed to render QR code")
	}
	return png, nil
}

// RenderBase64 renders a presentable token as a base64-encoded PNG
func (s *TokenService) RenderBase64(ctx context.Context, input RenderInput) (string, error) {
	png, err := s.RenderPNG(ctx, input)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func (s *TokenService) toResult(token *passes.QRToken, reused bool) *TokenResult {
	return &TokenResult{
		Token:           token.Token,
		EmployeeNumber:  token.EmployeeNumber,
		FirstName:       token.FirstName,
		LastName:        token.LastName,
		IssuedAt:        token.CreatedAt,
		ExpiresAt:       token.ExpiresAt,
		UsedForCheckIn:  token.UsedForCheckIn,
		UsedForCheckOut: token.UsedForCheckOut,
		Reused:          reused,
	}
}
