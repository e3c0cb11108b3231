package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func seedStoreItem(t *testing.T, items repository.ItemRepository, id string, qty int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, items.Create(&entity.Item{
		ID:          id,
		SKU:         "SKU-" + id,
		Name:        "Artículo " + id,
		Quantity:    decimal.NewFromInt(qty),
		BaseUnit:    "Pcs",
		Status:      entity.ItemStatusActive,
		CreatedAt:   now,
		LastUpdated: now,
	}))
}

// Veinte salidas concurrentes de 10 sobre una existencia de 100: exactamente
// diez deben confirmar y la existencia final es 0, nunca negativa.
func TestTxRunner_SalidasConcurrentesNuncaNegativo(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	runner := memory.NewTxRunner(store)
	seedStoreItem(t, items, "itm-1", 100)

	var wg sync.WaitGroup
	var confirmed int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Run(context.Background(), func(
				txItems repository.ItemRepository,
				_ repository.TransactionRepository,
			) error {
				return txItems.AdjustQuantity("itm-1", decimal.NewFromInt(-10), time.Now())
			})
			if err == nil {
				atomic.AddInt32(&confirmed, 1)
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, confirmed)
	it, err := items.GetByID("itm-1")
	require.NoError(t, err)
	assert.Equal(t, "0", it.Quantity.String())
}

// Un error a mitad de la transacción restaura el estado completo: ni el
// movimiento creado ni el ajuste previo sobreviven.
func TestTxRunner_RollbackRestauraTodo(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewTransactionRepository(store)
	runner := memory.NewTxRunner(store)
	seedStoreItem(t, items, "itm-1", 100)

	boom := errors.New("fallo simulado")
	err := runner.Run(context.Background(), func(
		txItems repository.ItemRepository,
		txMovements repository.TransactionRepository,
	) error {
		if err := txMovements.Create(&entity.Transaction{ID: "tx-1", Type: entity.TransactionTypeOut}); err != nil {
			return err
		}
		if err := txItems.AdjustQuantity("itm-1", decimal.NewFromInt(-30), time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	it, err := items.GetByID("itm-1")
	require.NoError(t, err)
	assert.Equal(t, "100", it.Quantity.String())

	tx, err := movements.GetByID("tx-1")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

// El almacén nunca comparte punteros: mutar lo devuelto no toca el estado.
func TestStore_DevuelveCopias(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	seedStoreItem(t, items, "itm-1", 100)

	it, err := items.GetByID("itm-1")
	require.NoError(t, err)
	it.Quantity = decimal.NewFromInt(-999)
	it.Name = "mutado"

	fresh, err := items.GetByID("itm-1")
	require.NoError(t, err)
	assert.Equal(t, "100", fresh.Quantity.String())
	assert.Equal(t, "Artículo itm-1", fresh.Name)
}

func TestItemRepo_UpdateConservaExistencia(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	seedStoreItem(t, items, "itm-1", 100)

	it, err := items.GetByID("itm-1")
	require.NoError(t, err)
	it.Name = "Nombre nuevo"
	it.Quantity = decimal.NewFromInt(5) // un caller descuidado no puede colar esto
	require.NoError(t, items.Update(it))

	fresh, err := items.GetByID("itm-1")
	require.NoError(t, err)
	assert.Equal(t, "Nombre nuevo", fresh.Name)
	assert.Equal(t, "100", fresh.Quantity.String())
}

func TestItemRepo_SKUDuplicado(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	seedStoreItem(t, items, "itm-1", 0)

	err := items.Create(&entity.Item{ID: "itm-2", SKU: "SKU-itm-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestIdempotencyStore_ReservaYExpira(t *testing.T) {
	s := memory.NewIdempotencyStore()
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "clave-1", 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "primera vez: reservada")

	ok, err = s.Reserve(ctx, "clave-1", 20*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok, "repetida dentro del TTL")

	time.Sleep(30 * time.Millisecond)
	ok, err = s.Reserve(ctx, "clave-1", 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "vencida: se puede reservar de nuevo")
}
