// Package petstore 以 decorapi 声明的宠物商店示例
package petstore

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/annotation"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/pathschema"
)

const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"
)

type Pet struct {
	ID     int64    `json:"id" description:"宠物ID"`
	Name   string   `json:"name" validate:"required" description:"名称"`
	Status string   `json:"status" validate:"oneof=available pending sold" description:"销售状态"`
	Tags   []string `json:"tags,omitempty" description:"标签"`
}

// Order 订单
type Order struct {
	ID       int64     `json:"id"`
	PetID    int64     `json:"pet_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=1"`
	ShipDate time.Time `json:"ship_date"`
	Complete bool      `json:"complete"`
}

// Store 内存中的宠物和订单
type Store struct {
	mu     sync.RWMutex
	pets   map[int64]*Pet
	orders map[int64]*Order
	nextID int64
}

func NewStore() *Store {
	return &Store{pets: make(map[int64]*Pet), orders: make(map[int64]*Order)}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

var errPetNotFound = decorapi.NewHTTPError(http.StatusNotFound, "pet not found")

// PetController 宠物管理
type PetController struct {
	Store *Store
}

// List 按状态筛选宠物, limit 为0时不限制数量
func (c *PetController) List(status string, limit int) ([]*Pet, error) {
	c.Store.mu.RLock()
	defer c.Store.mu.RUnlock()

	pets := make([]*Pet, 0, len(c.Store.pets))
	for _, p := range c.Store.pets {
		if status == "" || p.Status == status {
			pets = append(pets, p)
		}
	}
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID < pets[j].ID })

	if limit > 0 && len(pets) > limit {
		pets = pets[:limit]
	}
	return pets, nil
}

func (c *PetController) Find(id int64) (*Pet, error) {
	c.Store.mu.RLock()
	defer c.Store.mu.RUnlock()

	pet, ok := c.Store.pets[id]
	if !ok {
		return nil, errPetNotFound
	}
	return pet, nil
}

func (c *PetController) Create(ctx *decorapi.Context, pet *Pet) (*Pet, error) {
	if pet.Name == "" {
		return nil, decorapi.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}
	if pet.Status == "" {
		pet.Status = StatusAvailable
	}

	c.Store.mu.Lock()
	defer c.Store.mu.Unlock()

	pet.ID = c.Store.id()
	c.Store.pets[pet.ID] = pet
	ctx.Logger().Infof("pet %d created", pet.ID)

	return pet, nil
}

// Update 整体替换宠物信息
func (c *PetController) Update(id int64, pet *Pet) (*Pet, error) {
	c.Store.mu.Lock()
	defer c.Store.mu.Unlock()

	if _, ok := c.Store.pets[id]; !ok {
		return nil, errPetNotFound
	}
	pet.ID = id
	c.Store.pets[id] = pet

	return pet, nil
}

func (c *PetController) Remove(id int64) error {
	c.Store.mu.Lock()
	defer c.Store.mu.Unlock()

	if _, ok := c.Store.pets[id]; !ok {
		return errPetNotFound
	}
	delete(c.Store.pets, id)
	return nil
}

// StoreController 商店, 路由由方法名发现
type StoreController struct {
	Store *Store
}

// GetInventory 按销售状态统计宠物数量
func (c *StoreController) GetInventory() map[string]int {
	c.Store.mu.RLock()
	defer c.Store.mu.RUnlock()

	inventory := make(map[string]int)
	for _, p := range c.Store.pets {
		inventory[p.Status]++
	}
	return inventory
}

// OrderPost 下单, 宠物状态变为 pending
func (c *StoreController) OrderPost(order *Order) (*Order, error) {
	c.Store.mu.Lock()
	defer c.Store.mu.Unlock()

	pet, ok := c.Store.pets[order.PetID]
	if !ok {
		return nil, errPetNotFound
	}
	if pet.Status != StatusAvailable {
		return nil, decorapi.NewHTTPError(http.StatusConflict, "pet is not available")
	}

	pet.Status = StatusPending
	order.ID = c.Store.id()
	c.Store.orders[order.ID] = order

	return order, nil
}

// Controllers 共享同一个 Store 的控制器, 用于 decorapi.App.Register
func Controllers(store *Store) []any {
	return []any{&PetController{Store: store}, &StoreController{Store: store}}
}

// Declare 声明 PetController 和 StoreController 的路由
func Declare(reg *metadata.Registry) error {
	reg.Schemas().RegisterModel(Pet{}, Order{})

	notFound := map[string]*metadata.ResponseDescriptor{
		"404": {Description: "Pet not found"},
	}

	pets := annotation.For(reg, &PetController{}).
		Controller("pets", annotation.ControllerOption{Tags: []string{"Pet"}, Description: "宠物管理"}).
		Query("List", 0, "status", annotation.ParamOption{Description: "available, pending or sold"}).
		Query("List", 1, "limit").
		Get("/", "List", annotation.RouteOption{Summary: "List pets", Returns: "Array<Pet>"}).
		PathParam("Find", 0, "id").
		Get("/:id", "Find", annotation.RouteOption{Summary: "Find pet by ID", Responses: notFound}).
		Post("/", "Create", annotation.RouteOption{Summary: "Add a new pet"}).
		PathParam("Update", 0, "id").
		Body("Update", 1).
		Put("/:id", "Update", annotation.RouteOption{Summary: "Update an existing pet", Responses: notFound}).
		PathParam("Remove", 0, "id").
		Delete("/:id", "Remove", annotation.RouteOption{Summary: "Delete a pet", Responses: notFound})

	store := annotation.For(reg, &StoreController{}).
		Controller("store", annotation.ControllerOption{Tags: []string{"Store"}}).
		Scan(pathschema.Default())

	return errors.Join(pets.Err(), store.Err())
}
