package catalog

import (
	"context"
	"mime/multipart"
	"strings"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"

	"github.com/rs/zerolog"
)

type Repository interface {
	ListAvailable(ctx context.Context) ([]models.Product, error)
	SearchAvailable(ctx context.Context, term string) ([]models.Product, error)
	ListAvailableByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, image string) error
}

// ListingCache garde la vitrine publique (sans recherche)
type ListingCache interface {
	GetListing(ctx context.Context) ([]models.Product, bool)
	SetListing(ctx context.Context, products []models.Product)
	InvalidateListing(ctx context.Context)
}

// SearchIndex renvoie les ids des produits correspondant au terme
type SearchIndex interface {
	Search(ctx context.Context, term string) ([]int64, error)
	Index(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id int64) error
}

type ImageStore interface {
	Upload(ctx context.Context, productID int64, file *multipart.FileHeader) (string, error)
}

type Service struct {
	repo   Repository
	cache  ListingCache
	index  SearchIndex
	images ImageStore
	log    zerolog.Logger
}

type Option func(*Service)

func WithCache(c ListingCache) Option { return func(s *Service) { s.cache = c } }

func WithIndex(i SearchIndex) Option { return func(s *Service) { s.index = i } }

func WithImages(i ImageStore) Option { return func(s *Service) { s.images = i } }

func NewService(repo Repository, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List renvoie les produits en stock, filtrés par le terme s'il est fourni.
// Elasticsearch d'abord, repli sur la base si l'index est absent ou en erreur.
func (s *Service) List(ctx context.Context, query string) ([]models.Product, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return s.listAvailable(ctx)
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, term)
		if err == nil {
			return s.repo.ListAvailableByIDs(ctx, ids)
		}
		s.log.Warn().Err(err).Str("query", term).Msg("⚠️ Recherche Elasticsearch indisponible, repli sur la base")
	}
	return s.repo.SearchAvailable(ctx, term)
}

func (s *Service) listAvailable(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetListing(ctx); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetListing(ctx, products)
	}
	return products, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p, err := fromInput(in)
	if err != nil {
		return models.Product{}, err
	}
	if p.Image == "" {
		p.Image = models.DefaultImage
	}

	if err := s.repo.Insert(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.changed(ctx, p)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	p, err := fromInput(in)
	if err != nil {
		return models.Product{}, err
	}

	current, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	if p.Image == "" {
		p.Image = current.Image
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return models.Product{}, err
	}
	s.changed(ctx, p)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.InvalidateListing(ctx)
	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			s.log.Warn().Err(err).Int64("product_id", id).Msg("⚠️ Suppression de l'index échouée")
		}
	}
	return nil
}

func (s *Service) UploadImage(ctx context.Context, id int64, file *multipart.FileHeader) (models.Product, error) {
	if s.images == nil {
		return models.Product{}, apperr.Invalid("image", "stockage d'images non configuré")
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	url, err := s.images.Upload(ctx, id, file)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.repo.SetImage(ctx, id, url); err != nil {
		return models.Product{}, err
	}

	p.Image = url
	s.changed(ctx, p)
	return p, nil
}

// Reindex pousse tout le catalogue dans l'index de recherche
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if err := s.index.Index(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

// InvalidateListing vide le cache de la vitrine (après une commande, le stock a bougé)
func (s *Service) InvalidateListing(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateListing(ctx)
	}
}

func (s *Service) changed(ctx context.Context, p models.Product) {
	s.InvalidateListing(ctx)
	if s.index != nil {
		if err := s.index.Index(ctx, p); err != nil {
			s.log.Warn().Err(err).Int64("product_id", p.ID).Msg("⚠️ Indexation Elasticsearch échouée")
		}
	}
}

func fromInput(in models.ProductInput) (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, apperr.Invalid("name", "requis")
	}
	if !in.Price.IsPositive() {
		return models.Product{}, apperr.Invalid("price", "doit être positif")
	}
	if in.Stock == nil {
		return models.Product{}, apperr.Invalid("stock", "requis")
	}
	if *in.Stock < 0 {
		return models.Product{}, apperr.Invalid("stock", "ne peut pas être négatif")
	}

	return models.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       *in.Stock,
		Image:       strings.TrimSpace(in.Image),
	}, nil
}
