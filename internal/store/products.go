package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Product struct {
	ID            string    `json:"id_producto"`
	Title         string    `json:"titulo"`
	Category      string    `json:"categoria"`
	Condition     string    `json:"estado"`
	Description   string    `json:"descripcion"`
	Price         float64   `json:"precio"`
	City          string    `json:"ciudad"`
	Neighborhood  string    `json:"barrio"`
	Contact       string    `json:"contacto"`
	OwnerID       string    `json:"id_usuario"`
	OwnerName     string    `json:"usuario_nombre,omitempty"`
	Available     bool      `json:"disponible"`
	ImageFilename string    `json:"foto_nombre,omitempty"`
	PublishedAt   time.Time `json:"fecha_publicacion"`
	Exchanges     int       `json:"intercambios_realizados,omitempty"`
}

// Seller is the owner block returned alongside a single product.
type Seller struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono,omitempty"`
	Email string `json:"email,omitempty"`
}

const productCols = `p.id_producto, p.titulo, p.categoria, p.estado, p.descripcion,
	         p.precio, p.ciudad, p.barrio, p.contacto, p.id_usuario,
	         p.disponible, coalesce(p.foto_nombre,''), p.fecha_publicacion`

func (s *Store) InsertProduct(ctx context.Context, p *Product) error {
	const q = `
	  INSERT INTO productos (id_producto, titulo, categoria, estado, descripcion,
	                         precio, ciudad, barrio, contacto, id_usuario,
	                         disponible, fecha_publicacion)
	       VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Title, p.Category, p.Condition, p.Description,
		p.Price, p.City, p.Neighborhood, p.Contact, p.OwnerID,
		p.Available, p.PublishedAt,
	)
	return err
}

func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	const q = `
	  SELECT ` + productCols + `, u.nombre
	    FROM productos p
	    JOIN usuario u ON p.id_usuario = u.id_usuario
	   ORDER BY p.fecha_publicacion DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p, &p.OwnerName); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *Store) ProductByID(ctx context.Context, id string) (*Product, *Seller, error) {
	const q = `
	  SELECT ` + productCols + `,
	         u.nombre, coalesce(u.numero_telefono,''), u.email
	    FROM productos p
	    JOIN usuario u ON p.id_usuario = u.id_usuario
	   WHERE p.id_producto = $1`
	p := &Product{}
	v := &Seller{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Title, &p.Category, &p.Condition, &p.Description,
		&p.Price, &p.City, &p.Neighborhood, &p.Contact, &p.OwnerID,
		&p.Available, &p.ImageFilename, &p.PublishedAt,
		&v.Name, &v.Phone, &v.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	v.ID = p.OwnerID
	return p, v, nil
}

// ProductsByUser lists a user's products together with how many exchanges
// each has been part of (aggregate subquery against intercambio_detalle).
func (s *Store) ProductsByUser(ctx context.Context, userID string) ([]Product, error) {
	const q = `
	  SELECT ` + productCols + `,
	         (SELECT COUNT(*)
	            FROM intercambio_detalle d
	            JOIN intercambio i ON d.id_intercambio = i.id_intercambio
	           WHERE d.id_producto = p.id_producto) AS intercambios_realizados
	    FROM productos p
	   WHERE p.id_usuario = $1
	   ORDER BY p.fecha_publicacion DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p, &p.Exchanges); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, p *Product, image []byte) error {
	var (
		res sql.Result
		err error
	)
	if image != nil {
		const q = `
		  UPDATE productos
		     SET titulo=$1, descripcion=$2, precio=$3, categoria=$4, estado=$5,
		         ciudad=$6, barrio=$7, contacto=$8, foto=$9, foto_nombre=$10
		   WHERE id_producto=$11`
		res, err = s.db.ExecContext(ctx, q,
			p.Title, p.Description, p.Price, p.Category, p.Condition,
			p.City, p.Neighborhood, p.Contact, image, p.ImageFilename, p.ID)
	} else {
		const q = `
		  UPDATE productos
		     SET titulo=$1, descripcion=$2, precio=$3, categoria=$4, estado=$5,
		         ciudad=$6, barrio=$7, contacto=$8
		   WHERE id_producto=$9`
		res, err = s.db.ExecContext(ctx, q,
			p.Title, p.Description, p.Price, p.Category, p.Condition,
			p.City, p.Neighborhood, p.Contact, p.ID)
	}
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetProductAvailability(ctx context.Context, id string, available bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE productos SET disponible = $1 WHERE id_producto = $2`, available, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM productos WHERE id_producto = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetProductImage(ctx context.Context, id string, image []byte, filename string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE productos SET foto = $1, foto_nombre = $2 WHERE id_producto = $3`,
		image, filename, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ProductImage(ctx context.Context, id string) ([]byte, string, error) {
	var (
		image    []byte
		filename sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT foto, foto_nombre FROM productos WHERE id_producto = $1`, id,
	).Scan(&image, &filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if len(image) == 0 {
		return nil, "", ErrNotFound
	}
	name := filename.String
	if name == "" {
		name = "producto.jpg"
	}
	return image, name, nil
}

// scanProduct scans the shared product column list plus one trailing column
// (owner name or exchange count).
func scanProduct(rows *sql.Rows, p *Product, extra any) error {
	return rows.Scan(
		&p.ID, &p.Title, &p.Category, &p.Condition, &p.Description,
		&p.Price, &p.City, &p.Neighborhood, &p.Contact, &p.OwnerID,
		&p.Available, &p.ImageFilename, &p.PublishedAt, extra,
	)
}
