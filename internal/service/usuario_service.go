package service

import (
	"context"
	"errors"

	"tippool/internal/apierror"
	"tippool/internal/dto"
	"tippool/internal/model"
	"tippool/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioService interface {
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	// Desactivar soft-deletes: the account stays for history, login is denied.
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Store(err)
	}

	resp := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		resp = append(resp, usuarioToResponse(&u))
	}
	return resp, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	usuario, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := usuarioToResponse(usuario)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	usuario, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != "" {
		usuario.Nombre = req.Nombre
	}
	if req.Apellido != "" {
		usuario.Apellido = req.Apellido
	}
	if req.Email != "" {
		usuario.Email = req.Email
	}
	if req.Rol != "" {
		usuario.Rol = req.Rol
	}

	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, apierror.Store(err)
	}

	resp := usuarioToResponse(usuario)
	return &resp, nil
}

func (s *usuarioService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apierror.Store(err)
	}
	return nil
}

// buscar resolves an ID, keeping a missing row distinct from a store
// failure: only the former becomes a 404.
func (s *usuarioService) buscar(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	usuario, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	if err != nil {
		return nil, apierror.Store(err)
	}
	return usuario, nil
}
