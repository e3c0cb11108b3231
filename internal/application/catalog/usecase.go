package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// UseCase casos de uso CRUD del catálogo de artículos. La existencia no se
// administra aquí: todo artículo nace en 0 y solo el libro kardex la mueve.
type UseCase struct {
	items     repository.ItemRepository
	movements repository.TransactionRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(items repository.ItemRepository, movements repository.TransactionRepository) *UseCase {
	return &UseCase{items: items, movements: movements}
}

// Create crea un artículo con existencia 0 y estado activo.
func (uc *UseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	alts := toEntityUnits(in.AlternativeUnits)
	if err := inventory.ValidateUnits(in.BaseUnit, alts); err != nil {
		return nil, err
	}
	if in.MinLevel.LessThan(decimal.Zero) || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("umbral y precio deben ser >= 0: %w", domain.ErrInvalidInput)
	}
	existing, err := uc.items.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("SKU %s: %w", in.SKU, domain.ErrDuplicate)
	}

	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             in.Name,
		Category:         strings.TrimSpace(in.Category),
		Quantity:         decimal.Zero,
		BaseUnit:         in.BaseUnit,
		AlternativeUnits: alts,
		MinLevel:         in.MinLevel,
		UnitPrice:        in.UnitPrice,
		Location:         strings.TrimSpace(in.Location),
		Status:           entity.ItemStatusActive,
		CreatedAt:        now,
		LastUpdated:      now,
	}
	if err := uc.items.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *UseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza los campos descriptivos de un artículo. No permite tocar
// SKU ni Quantity; si cambian las unidades, la definición completa se
// re-valida. Las líneas ya confirmadas conservan su conversión congelada.
func (uc *UseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.BaseUnit != nil {
		item.BaseUnit = *in.BaseUnit
	}
	if in.AlternativeUnits != nil {
		item.AlternativeUnits = toEntityUnits(*in.AlternativeUnits)
	}
	if in.BaseUnit != nil || in.AlternativeUnits != nil {
		if err := inventory.ValidateUnits(item.BaseUnit, item.AlternativeUnits); err != nil {
			return nil, err
		}
	}
	if in.MinLevel != nil {
		if in.MinLevel.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.MinLevel = *in.MinLevel
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.UnitPrice = *in.UnitPrice
	}
	if in.Location != nil {
		item.Location = strings.TrimSpace(*in.Location)
	}
	if in.Status != nil {
		if *in.Status != entity.ItemStatusActive && *in.Status != entity.ItemStatusInactive {
			return nil, fmt.Errorf("estado %q: %w", *in.Status, domain.ErrInvalidInput)
		}
		item.Status = *in.Status
	}
	item.LastUpdated = time.Now()

	if err := uc.items.Update(item); err != nil {
		return nil, err
	}
	// El repositorio conserva la existencia real; releer para responder con ella.
	return uc.GetByID(id)
}

// Delete elimina un artículo sin historia. Si algún movimiento confirmado lo
// referencia se rechaza con ErrItemReferenced: la alternativa es desactivarlo.
func (uc *UseCase) Delete(id string) error {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.movements.ExistsLineForItem(id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("artículo %s: %w", item.SKU, domain.ErrItemReferenced)
	}
	return uc.items.Delete(id)
}

// List lista el catálogo con búsqueda (nombre sin tildes o SKU), filtros y paginación.
func (uc *UseCase) List(filter repository.ItemFilter, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.items.List(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, item := range list {
		out.Items = append(out.Items, *toItemResponse(item))
	}
	return out, nil
}

// Summary agrega el catálogo completo: conteo, valoración a precio vigente,
// artículos en alerta y desglose por categoría.
func (uc *UseCase) Summary() (*dto.CatalogSummaryResponse, error) {
	all, err := uc.items.List(repository.ItemFilter{}, 0, 0)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*dto.CategorySummaryDTO)
	for _, item := range all {
		cat, ok := byCategory[item.Category]
		if !ok {
			cat = &dto.CategorySummaryDTO{Category: item.Category, Value: decimal.Zero}
			byCategory[item.Category] = cat
		}
		cat.Items++
		cat.Value = cat.Value.Add(item.Quantity.Mul(item.UnitPrice))
	}
	categories := make([]dto.CategorySummaryDTO, 0, len(byCategory))
	for _, cat := range byCategory {
		categories = append(categories, *cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })

	return &dto.CatalogSummaryResponse{
		TotalItems:    len(all),
		TotalValue:    inventory.Valuation(all),
		LowStockCount: len(inventory.LowStock(all)),
		ByCategory:    categories,
	}, nil
}

func toEntityUnits(in []dto.UnitConversionDTO) []entity.UnitConversion {
	out := make([]entity.UnitConversion, 0, len(in))
	for _, u := range in {
		out = append(out, entity.UnitConversion{Name: u.Name, Ratio: u.Ratio})
	}
	return out
}

func toDTOUnits(in []entity.UnitConversion) []dto.UnitConversionDTO {
	out := make([]dto.UnitConversionDTO, 0, len(in))
	for _, u := range in {
		out = append(out, dto.UnitConversionDTO{Name: u.Name, Ratio: u.Ratio})
	}
	return out
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:               item.ID,
		SKU:              item.SKU,
		Name:             item.Name,
		Category:         item.Category,
		Quantity:         item.Quantity,
		BaseUnit:         item.BaseUnit,
		AlternativeUnits: toDTOUnits(item.AlternativeUnits),
		MinLevel:         item.MinLevel,
		UnitPrice:        item.UnitPrice,
		Location:         item.Location,
		Status:           item.Status,
		CreatedAt:        item.CreatedAt,
		LastUpdated:      item.LastUpdated,
	}
}
