package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/normalize"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria del puerto ItemRepository.
// Con inTx los métodos asumen que TxRunner ya tiene el lock de escritura.
type ItemRepo struct {
	s    *Store
	inTx bool
}

// NewItemRepository construye el adaptador sobre el almacén compartido.
func NewItemRepository(s *Store) *ItemRepo {
	return &ItemRepo{s: s}
}

func (r *ItemRepo) lock() {
	if !r.inTx {
		r.s.mu.Lock()
	}
}

func (r *ItemRepo) unlock() {
	if !r.inTx {
		r.s.mu.Unlock()
	}
}

func (r *ItemRepo) rlock() {
	if !r.inTx {
		r.s.mu.RLock()
	}
}

func (r *ItemRepo) runlock() {
	if !r.inTx {
		r.s.mu.RUnlock()
	}
}

// Create persiste un artículo nuevo. SKU e ID únicos.
func (r *ItemRepo) Create(item *entity.Item) error {
	r.lock()
	defer r.unlock()

	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, it := range r.s.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.rlock()
	defer r.runlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(it), nil
}

// GetBySKU obtiene un artículo por SKU; (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	r.rlock()
	defer r.runlock()

	for _, it := range r.s.items {
		if it.SKU == sku {
			return cloneItem(it), nil
		}
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: dentro de una transacción el
// lock de escritura del almacén ya serializa todo acceso.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

// Update persiste los campos descriptivos; la existencia almacenada se conserva.
func (r *ItemRepo) Update(item *entity.Item) error {
	r.lock()
	defer r.unlock()

	current, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneItem(item)
	next.Quantity = current.Quantity // Quantity solo cambia vía AdjustQuantity
	r.s.items[item.ID] = next
	return nil
}

// AdjustQuantity aplica quantity += delta con la guarda de no-negatividad.
func (r *ItemRepo) AdjustQuantity(itemID string, delta decimal.Decimal, now time.Time) error {
	r.lock()
	defer r.unlock()

	it, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	next := it.Quantity.Add(delta)
	if next.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	it.Quantity = next
	it.LastUpdated = now
	return nil
}

// List filtra y pagina el catálogo, ordenado por nombre normalizado y SKU.
func (r *ItemRepo) List(filter repository.ItemFilter, limit, offset int) ([]*entity.Item, error) {
	r.rlock()
	defer r.runlock()

	query := normalize.SearchKey(filter.Query)
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		if filter.Location != "" && it.Location != filter.Location {
			continue
		}
		if query != "" &&
			!strings.Contains(normalize.SearchKey(it.Name), query) &&
			!strings.Contains(strings.ToLower(it.SKU), query) {
			continue
		}
		out = append(out, cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := normalize.SearchKey(out[i].Name), normalize.SearchKey(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].SKU < out[j].SKU
	})
	return paginate(out, limit, offset), nil
}

// Delete elimina un artículo del catálogo.
func (r *ItemRepo) Delete(id string) error {
	r.lock()
	defer r.unlock()

	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

// paginate recorta un slice ya ordenado; limit <= 0 significa sin límite.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
