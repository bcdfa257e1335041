package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	AuctionActive    = "active"
	AuctionFinalized = "finalized"
)

var (
	// ErrAuctionInactive is returned when a bid targets an auction that is
	// absent or no longer active.
	ErrAuctionInactive = errors.New("auction not active")
	// ErrPriceNotExceeded is returned when a bid does not strictly exceed
	// the current price at the moment of the write.
	ErrPriceNotExceeded = errors.New("bid does not exceed current price")
)

type Auction struct {
	ID            string    `json:"id_subasta"`
	Title         string    `json:"titulo"`
	Description   string    `json:"descripcion"`
	InitialPrice  float64   `json:"precio_inicial"`
	CurrentPrice  float64   `json:"precio_actual"`
	OwnerID       string    `json:"id_usuario"`
	OwnerName     string    `json:"nombre_usuario"`
	Status        string    `json:"estado"`
	CreatedAt     time.Time `json:"fecha_creacion"`
	ExpiresAt     time.Time `json:"fecha_expiracion"`
	ImageFilename string    `json:"foto_nombre,omitempty"`
}

type Bid struct {
	ID        string    `json:"id_puja"`
	AuctionID string    `json:"id_subasta"`
	BidderID  string    `json:"id_usuario"`
	Amount    float64   `json:"monto"`
	PlacedAt  time.Time `json:"fecha"`
}

func (s *Store) InsertAuction(ctx context.Context, a *Auction, image []byte) error {
	const q = `
	  INSERT INTO subastas (id_subasta, titulo, descripcion, precio_inicial,
	                        precio_actual, id_usuario, estado,
	                        fecha_creacion, fecha_expiracion, foto, foto_nombre)
	       VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := s.db.ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.InitialPrice,
		a.CurrentPrice, a.OwnerID, a.Status,
		a.CreatedAt, a.ExpiresAt, image, a.ImageFilename,
	)
	return err
}

func (s *Store) ListActiveAuctions(ctx context.Context) ([]Auction, error) {
	const q = `
	  SELECT s.id_subasta, s.titulo, s.descripcion, s.precio_inicial,
	         s.precio_actual, s.id_usuario, u.nombre, s.estado,
	         s.fecha_creacion, s.fecha_expiracion
	    FROM subastas s
	    JOIN usuario u ON s.id_usuario = u.id_usuario
	   WHERE s.estado = $1
	   ORDER BY s.fecha_creacion DESC`
	rows, err := s.db.QueryContext(ctx, q, AuctionActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Auction, 0)
	for rows.Next() {
		var a Auction
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.InitialPrice,
			&a.CurrentPrice, &a.OwnerID, &a.OwnerName, &a.Status,
			&a.CreatedAt, &a.ExpiresAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (s *Store) AuctionByID(ctx context.Context, id string) (*Auction, error) {
	const q = `
	  SELECT s.id_subasta, s.titulo, s.descripcion, s.precio_inicial,
	         s.precio_actual, s.id_usuario, u.nombre, s.estado,
	         s.fecha_creacion, s.fecha_expiracion
	    FROM subastas s
	    JOIN usuario u ON s.id_usuario = u.id_usuario
	   WHERE s.id_subasta = $1`
	a := &Auction{}
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Title, &a.Description, &a.InitialPrice,
		&a.CurrentPrice, &a.OwnerID, &a.OwnerName, &a.Status,
		&a.CreatedAt, &a.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) AuctionImage(ctx context.Context, id string) ([]byte, string, error) {
	const q = `SELECT foto, foto_nombre FROM subastas WHERE id_subasta = $1`
	var (
		image    []byte
		filename sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&image, &filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if len(image) == 0 {
		return nil, "", ErrNotFound
	}
	return image, filename.String, nil
}

// PlaceBid records a bid and raises the auction price in one transaction.
// The price raise is a single conditional update, so two concurrent bids
// against the same price can never both win: whichever statement runs
// second sees the raised price and matches zero rows.
func (s *Store) PlaceBid(ctx context.Context, b *Bid) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const raiseQ = `
	  UPDATE subastas
	     SET precio_actual = $1
	   WHERE id_subasta = $2
	     AND estado = $3
	     AND precio_actual < $1`
	res, err := tx.ExecContext(ctx, raiseQ, b.Amount, b.AuctionID, AuctionActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero rows means one of the preconditions failed; re-read to tell
		// the caller which one.
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT estado FROM subastas WHERE id_subasta = $1`, b.AuctionID,
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAuctionInactive
		}
		if err != nil {
			return err
		}
		if status != AuctionActive {
			return ErrAuctionInactive
		}
		return ErrPriceNotExceeded
	}

	const insQ = `
	  INSERT INTO pujas (id_puja, id_subasta, id_usuario, monto, fecha)
	       VALUES ($1,$2,$3,$4,$5)`
	if _, err := tx.ExecContext(ctx, insQ,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.PlacedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// FinalizeExpired flips every active auction whose expiry is strictly in
// the past. The update is idempotent; calling it with nothing expired
// matches zero rows and changes nothing.
func (s *Store) FinalizeExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `
	  UPDATE subastas
	     SET estado = $1
	   WHERE estado = $2
	     AND fecha_expiracion < $3`
	res, err := s.db.ExecContext(ctx, q, AuctionFinalized, AuctionActive, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
