package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"truekki/internal/store"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrDescriptionTooShort = errors.New("description must be at least 50 characters")
	ErrNotFound            = errors.New("product not found")
	ErrInvalidScore        = errors.New("score must be between 1 and 5")
)

const minDescriptionLen = 50

// Listing carries every field of a publish or update request.
type Listing struct {
	Title        string
	Category     string
	Condition    string
	Description  string
	Price        float64
	City         string
	Neighborhood string
	Contact      string
	OwnerID      string
}

type Rating struct {
	ProductID string  `json:"id_producto"`
	Average   float64 `json:"promedio"`
	Count     int     `json:"total"`
}

type Store interface {
	InsertProduct(ctx context.Context, p *store.Product) error
	ListProducts(ctx context.Context) ([]store.Product, error)
	ProductByID(ctx context.Context, id string) (*store.Product, *store.Seller, error)
	ProductsByUser(ctx context.Context, userID string) ([]store.Product, error)
	UpdateProduct(ctx context.Context, p *store.Product, image []byte) error
	SetProductAvailability(ctx context.Context, id string, available bool) error
	DeleteProduct(ctx context.Context, id string) error
	SetProductImage(ctx context.Context, id string, image []byte, filename string) error
	ProductImage(ctx context.Context, id string) ([]byte, string, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	FavoritesByUser(ctx context.Context, userID string) ([]store.Product, error)
	RateProduct(ctx context.Context, userID, productID string, score int) error
	ProductRating(ctx context.Context, productID string) (float64, int, error)
}

type IProductService interface {
	Publish(ctx context.Context, l Listing) (string, error)
	List(ctx context.Context) ([]store.Product, error)
	Get(ctx context.Context, id string) (*store.Product, *store.Seller, error)
	ByUser(ctx context.Context, userID string) ([]store.Product, error)
	Update(ctx context.Context, id string, l Listing, image []byte, filename string) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, image []byte, filename string) error
	Image(ctx context.Context, id string) ([]byte, string, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	Favorites(ctx context.Context, userID string) ([]store.Product, error)
	Rate(ctx context.Context, userID, productID string, score int) error
	Rating(ctx context.Context, productID string) (*Rating, error)
}

type productService struct {
	st Store
}

func NewProductService(st Store) IProductService { return &productService{st: st} }

func (l Listing) validate() error {
	if l.Title == "" || l.Category == "" || l.Condition == "" || l.Description == "" ||
		l.Price <= 0 || l.City == "" || l.Neighborhood == "" || l.Contact == "" {
		return ErrMissingFields
	}
	if len(l.Description) < minDescriptionLen {
		return ErrDescriptionTooShort
	}
	return nil
}

func (svc *productService) Publish(ctx context.Context, l Listing) (string, error) {
	if l.OwnerID == "" {
		return "", ErrMissingFields
	}
	if err := l.validate(); err != nil {
		return "", err
	}

	p := &store.Product{
		ID:           uuid.New().String(),
		Title:        l.Title,
		Category:     l.Category,
		Condition:    l.Condition,
		Description:  l.Description,
		Price:        l.Price,
		City:         l.City,
		Neighborhood: l.Neighborhood,
		Contact:      l.Contact,
		OwnerID:      l.OwnerID,
		Available:    true,
		PublishedAt:  time.Now().UTC(),
	}
	if err := svc.st.InsertProduct(ctx, p); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (svc *productService) List(ctx context.Context) ([]store.Product, error) {
	list, err := svc.st.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

func (svc *productService) Get(ctx context.Context, id string) (*store.Product, *store.Seller, error) {
	p, seller, err := svc.st.ProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, seller, nil
}

func (svc *productService) ByUser(ctx context.Context, userID string) ([]store.Product, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}
	list, err := svc.st.ProductsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("products of user %s: %w", userID, err)
	}
	return list, nil
}

func (svc *productService) Update(ctx context.Context, id string, l Listing, image []byte, filename string) error {
	if id == "" {
		return ErrMissingFields
	}
	if err := l.validate(); err != nil {
		return err
	}

	p := &store.Product{
		ID:            id,
		Title:         l.Title,
		Category:      l.Category,
		Condition:     l.Condition,
		Description:   l.Description,
		Price:         l.Price,
		City:          l.City,
		Neighborhood:  l.Neighborhood,
		Contact:       l.Contact,
		ImageFilename: filename,
	}
	err := svc.st.UpdateProduct(ctx, p, image)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	return nil
}

func (svc *productService) SetAvailability(ctx context.Context, id string, available bool) error {
	err := svc.st.SetProductAvailability(ctx, id, available)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("set availability of %s: %w", id, err)
	}
	return nil
}

func (svc *productService) Delete(ctx context.Context, id string) error {
	err := svc.st.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func (svc *productService) UploadImage(ctx context.Context, id string, image []byte, filename string) error {
	if len(image) == 0 {
		return ErrMissingFields
	}
	err := svc.st.SetProductImage(ctx, id, image, filename)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("upload image for %s: %w", id, err)
	}
	return nil
}

func (svc *productService) Image(ctx context.Context, id string) ([]byte, string, error) {
	image, filename, err := svc.st.ProductImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("image of %s: %w", id, err)
	}
	return image, filename, nil
}

func (svc *productService) AddFavorite(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return ErrMissingFields
	}
	if err := svc.st.AddFavorite(ctx, userID, productID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (svc *productService) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return ErrMissingFields
	}
	err := svc.st.RemoveFavorite(ctx, userID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (svc *productService) Favorites(ctx context.Context, userID string) ([]store.Product, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}
	list, err := svc.st.FavoritesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites of %s: %w", userID, err)
	}
	return list, nil
}

func (svc *productService) Rate(ctx context.Context, userID, productID string, score int) error {
	if userID == "" || productID == "" {
		return ErrMissingFields
	}
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	if err := svc.st.RateProduct(ctx, userID, productID, score); err != nil {
		return fmt.Errorf("rate product %s: %w", productID, err)
	}
	return nil
}

func (svc *productService) Rating(ctx context.Context, productID string) (*Rating, error) {
	if productID == "" {
		return nil, ErrMissingFields
	}
	avg, count, err := svc.st.ProductRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("rating of %s: %w", productID, err)
	}
	return &Rating{ProductID: productID, Average: avg, Count: count}, nil
}
