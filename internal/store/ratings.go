package store

import "context"

// RateProduct records one rating per user and product; re-rating replaces
// the previous score.
func (s *Store) RateProduct(ctx context.Context, userID, productID string, score int) error {
	const q = `
	  INSERT INTO calificaciones (id_usuario, id_producto, puntuacion)
	       VALUES ($1,$2,$3)
	  ON CONFLICT (id_usuario, id_producto) DO UPDATE
	        SET puntuacion = EXCLUDED.puntuacion`
	_, err := s.db.ExecContext(ctx, q, userID, productID, score)
	return err
}

func (s *Store) ProductRating(ctx context.Context, productID string) (avg float64, count int, err error) {
	const q = `
	  SELECT coalesce(AVG(puntuacion),0), COUNT(*)
	    FROM calificaciones
	   WHERE id_producto = $1`
	err = s.db.QueryRowContext(ctx, q, productID).Scan(&avg, &count)
	return avg, count, err
}
