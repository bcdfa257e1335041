package store

import "context"

func (s *Store) AddFavorite(ctx context.Context, userID, productID string) error {
	const q = `
	  INSERT INTO favoritos (id_usuario, id_producto)
	       VALUES ($1,$2)
	  ON CONFLICT DO NOTHING`
	_, err := s.db.ExecContext(ctx, q, userID, productID)
	return err
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, productID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favoritos WHERE id_usuario = $1 AND id_producto = $2`,
		userID, productID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FavoritesByUser(ctx context.Context, userID string) ([]Product, error) {
	const q = `
	  SELECT ` + productCols + `, u.nombre
	    FROM favoritos f
	    JOIN productos p ON f.id_producto = p.id_producto
	    JOIN usuario u ON p.id_usuario = u.id_usuario
	   WHERE f.id_usuario = $1
	   ORDER BY p.fecha_publicacion DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
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
