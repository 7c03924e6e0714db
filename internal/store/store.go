package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seafood-order-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves the full catalog
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CreateProduct inserts a new catalog entry
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, category, unit, price, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return s.db.GetContext(ctx, &product.CreatedAt, query,
		product.ID, product.Name, product.Category, product.Unit, product.Price, product.Available)
}

// UpdateProduct updates price and availability of a catalog entry. Cart lines
// already holding a price snapshot are unaffected.
func (s *Store) UpdateProduct(ctx context.Context, id string, price int64, available bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET price = $1, available = $2 WHERE id = $3",
		price, available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}

// GetClients retrieves all clients
func (s *Store) GetClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY name")
	return clients, err
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient inserts a new client
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, address, contact_person, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		client.ID, client.Name, client.Address, client.ContactPerson, client.Phone, client.Email)
	return err
}

// GetDocuments retrieves download-center documents, newest first
func (s *Store) GetDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.SelectContext(ctx, &docs, "SELECT * FROM documents ORDER BY uploaded_at DESC")
	return docs, err
}

// GetDocumentByID retrieves a document by ID
func (s *Store) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
