package db

import (
	"github.com/rs/zerolog/log"

	"github.com/greensys-tech/invernadero/internal/model"
)

func (s *pgStore) CreateUser(email, hashedPassword string, name *string, role string) (int, error) {
	var id int
	const q = `
	INSERT INTO users (email, hashed_password, name, role, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING id;`
	if err := s.db.Get(&id, q, email, hashedPassword, name, role); err != nil {
		log.Error().Err(err).Str("email", email).Msg("CreateUser failed")
		return 0, err
	}
	return id, nil
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	const q = `SELECT id, email, hashed_password, name, role, created_at, updated_at FROM users WHERE email = $1;`
	if err := s.db.Get(&u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	const q = `SELECT id, email, hashed_password, name, role, created_at, updated_at FROM users WHERE id = $1;`
	if err := s.db.Get(&u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	_, err := s.db.Exec(`UPDATE users SET email = $2, name = $3, updated_at = now() WHERE id = $1;`, id, email, name)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("UpdateUserProfile failed")
	}
	return err
}

func (s *pgStore) ListUsers() ([]model.User, error) {
	var out []model.User
	const q = `SELECT id, email, hashed_password, name, role, created_at, updated_at FROM users ORDER BY id;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("ListUsers failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateUserRole(id int, role string) error {
	_, err := s.db.Exec(`UPDATE users SET role = $2, updated_at = now() WHERE id = $1;`, id, role)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("UpdateUserRole failed")
	}
	return err
}

func (s *pgStore) DeleteUser(id int) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("DeleteUser failed")
	}
	return err
}
