package service

import (
	"context"
	"time"

	"tippool/internal/apierror"
	"tippool/internal/config"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UsuarioResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UsuarioResponse, error) {
	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apierror.Conflict("El email ya está registrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, apierror.Store(err)
	}

	usuario := &model.Usuario{
		Email:        req.Email,
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, apierror.Store(err)
	}

	resp := usuarioToResponse(usuario)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil || !usuario.Activo {
		// Same message for unknown email, wrong password and inactive
		// account so callers cannot probe which accounts exist.
		return nil, apierror.Forbidden("Credenciales inválidas o cuenta inactiva")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Forbidden("Credenciales inválidas o cuenta inactiva")
	}

	token, err := s.generateToken(usuario)
	if err != nil {
		return nil, apierror.Store(err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  usuarioToResponse(usuario),
	}, nil
}

func (s *authService) generateToken(usuario *model.Usuario) (string, error) {
	claims := jwt.MapClaims{
		"user_id": usuario.ID.String(),
		"email":   usuario.Email,
		"rol":     usuario.Rol,
		"exp":     time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Rol:       u.Rol,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
