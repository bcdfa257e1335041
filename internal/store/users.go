package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const UserActive = "activo"

type User struct {
	ID           string    `json:"id_usuario"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"numero_telefono,omitempty"`
	Address      string    `json:"direccion,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Status       string    `json:"estado"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

func (s *Store) InsertUser(ctx context.Context, u *User) error {
	const q = `
	  INSERT INTO usuario (id_usuario, nombre, email, contrasena,
	                       numero_telefono, direccion, bio, estado, fecha_registro)
	       VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := s.db.ExecContext(ctx, q,
		u.ID, u.Name, u.Email, u.PasswordHash,
		u.Phone, u.Address, u.Bio, u.Status, u.RegisteredAt,
	)
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
	  SELECT id_usuario, nombre, email, contrasena,
	         coalesce(numero_telefono,''), coalesce(direccion,''),
	         coalesce(bio,''), estado, fecha_registro
	    FROM usuario WHERE email = $1`
	u := &User{}
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Phone, &u.Address, &u.Bio, &u.Status, &u.RegisteredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id, name, phone, address, bio string) error {
	const q = `
	  UPDATE usuario
	     SET nombre = $1, numero_telefono = $2, direccion = $3, bio = $4
	   WHERE id_usuario = $5`
	res, err := s.db.ExecContext(ctx, q, name, phone, address, bio, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
