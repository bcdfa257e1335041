package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPlaceBid_RaisesPriceAndRecordsBid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	placedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	bid := &Bid{ID: "b1", AuctionID: "a1", BidderID: "u2", Amount: 150, PlacedAt: placedAt}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(150.0, "a1", AuctionActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO pujas`).
		WithArgs("b1", "a1", "u2", 150.0, placedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.PlaceBid(context.Background(), bid))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_BidNotAboveCurrentPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	// The conditional update matches nothing; the row is active, so the
	// amount was the failing precondition.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(100.0, "a1", AuctionActive).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT estado FROM subastas`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow(AuctionActive))
	mock.ExpectRollback()

	err = s.PlaceBid(context.Background(), &Bid{ID: "b1", AuctionID: "a1", BidderID: "u2", Amount: 100})
	require.ErrorIs(t, err, ErrPriceNotExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_FinalizedAuction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(500.0, "a1", AuctionActive).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT estado FROM subastas`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow(AuctionFinalized))
	mock.ExpectRollback()

	err = s.PlaceBid(context.Background(), &Bid{ID: "b1", AuctionID: "a1", BidderID: "u2", Amount: 500})
	require.ErrorIs(t, err, ErrAuctionInactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_MissingAuction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(50.0, "nope", AuctionActive).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT estado FROM subastas`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"estado"}))
	mock.ExpectRollback()

	err = s.PlaceBid(context.Background(), &Bid{ID: "b1", AuctionID: "nope", BidderID: "u2", Amount: 50})
	require.ErrorIs(t, err, ErrAuctionInactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(AuctionFinalized, AuctionActive, now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.FinalizeExpired(context.Background(), now)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	// Second sweep with nothing newly expired is a no-op.
	mock.ExpectExec(`UPDATE subastas`).
		WithArgs(AuctionFinalized, AuctionActive, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err = s.FinalizeExpired(context.Background(), now)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuctionByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectQuery(`SELECT (.+) FROM subastas`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id_subasta"}))

	_, err = s.AuctionByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAuctionImage_EmptyBlobIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectQuery(`SELECT foto, foto_nombre FROM subastas`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"foto", "foto_nombre"}).AddRow([]byte{}, "x.jpg"))

	_, _, err = s.AuctionImage(context.Background(), "a1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListActiveAuctions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	created := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	expires := created.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id_subasta", "titulo", "descripcion", "precio_inicial", "precio_actual",
		"id_usuario", "nombre", "estado", "fecha_creacion", "fecha_expiracion",
	}).
		AddRow("a2", "Bici", "Bicicleta de montaña", 200.0, 250.0, "u1", "Ana", AuctionActive, created.Add(time.Hour), expires).
		AddRow("a1", "Camisa", "Camisa oficial", 50.0, 50.0, "u2", "Luis", AuctionActive, created, expires)

	mock.ExpectQuery(`SELECT (.+) FROM subastas`).
		WithArgs(AuctionActive).
		WillReturnRows(rows)

	list, err := s.ListActiveAuctions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a2", list[0].ID)
	require.Equal(t, "Ana", list[0].OwnerName)
	require.Equal(t, 250.0, list[0].CurrentPrice)
}
