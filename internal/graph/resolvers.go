package graph

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/cooscarhuerta/CRMGrapHQL/config"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/audit"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/guard"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/order"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/report"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/graphql-go/graphql"
)

// Resolver bundles the services and repositories the schema resolves
// against. The acting identity travels in the request context and is
// nil for anonymous callers.
type Resolver struct {
	Auth     *auth.Service
	Workflow *order.Workflow
	Reports  *report.Service
	Users    repository.UserRepository
	Products repository.ProductRepository
	Clients  repository.ClientRepository
	Orders   repository.OrderRepository
	Bus      EventBus.Bus
	Policy   config.PolicyConfig
	NewID    func() int64
}

func ptrUsers(users []domain.User) []*domain.User {
	out := make([]*domain.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out
}

func ptrProducts(products []domain.Product) []*domain.Product {
	out := make([]*domain.Product, len(products))
	for i := range products {
		out[i] = &products[i]
	}
	return out
}

func ptrClients(clients []domain.Client) []*domain.Client {
	out := make([]*domain.Client, len(clients))
	for i := range clients {
		out[i] = &clients[i]
	}
	return out
}

func ptrOrders(orders []domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	for i := range orders {
		out[i] = &orders[i]
	}
	return out
}

// Queries

func (r *Resolver) resolveCurrentUser(p graphql.ResolveParams) (interface{}, error) {
	ident := auth.IdentityFrom(p.Context)
	if ident == nil {
		return nil, nil
	}
	return r.Users.GetByID(p.Context, ident.ID)
}

func (r *Resolver) resolveProducts(p graphql.ResolveParams) (interface{}, error) {
	products, err := r.Products.List(p.Context)
	if err != nil {
		return nil, err
	}
	return ptrProducts(products), nil
}

func (r *Resolver) resolveProduct(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	return r.Products.GetByID(p.Context, id)
}

func (r *Resolver) resolveClients(p graphql.ResolveParams) (interface{}, error) {
	clients, err := r.Clients.List(p.Context)
	if err != nil {
		return nil, err
	}
	return ptrClients(clients), nil
}

func (r *Resolver) resolveMyClients(p graphql.ResolveParams) (interface{}, error) {
	ident := auth.IdentityFrom(p.Context)
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	clients, err := r.Clients.ListBySeller(p.Context, ident.ID)
	if err != nil {
		return nil, err
	}
	return ptrClients(clients), nil
}

func (r *Resolver) resolveClient(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	client, err := r.Clients.GetByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	if err := guard.AssertOwns(auth.IdentityFrom(p.Context), client.SellerID); err != nil {
		return nil, err
	}
	return client, nil
}

func (r *Resolver) resolveOrders(p graphql.ResolveParams) (interface{}, error) {
	orders, err := r.Orders.List(p.Context)
	if err != nil {
		return nil, err
	}
	return ptrOrders(orders), nil
}

func (r *Resolver) resolveMyOrders(p graphql.ResolveParams) (interface{}, error) {
	ident := auth.IdentityFrom(p.Context)
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	orders, err := r.Orders.ListBySeller(p.Context, ident.ID)
	if err != nil {
		return nil, err
	}
	return ptrOrders(orders), nil
}

func (r *Resolver) resolveOrder(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	ord, err := r.Orders.GetByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	if err := guard.AssertOwns(auth.IdentityFrom(p.Context), ord.SellerID); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *Resolver) resolveOrdersByStatus(p graphql.ResolveParams) (interface{}, error) {
	ident := auth.IdentityFrom(p.Context)
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	status, _ := p.Args["status"].(string)
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalid, status)
	}
	orders, err := r.Orders.ListBySellerAndStatus(p.Context, ident.ID, status)
	if err != nil {
		return nil, err
	}
	return ptrOrders(orders), nil
}

func (r *Resolver) resolveTopClients(p graphql.ResolveParams) (interface{}, error) {
	return r.Reports.TopClients(p.Context)
}

func (r *Resolver) resolveTopSellers(p graphql.ResolveParams) (interface{}, error) {
	return r.Reports.TopSellers(p.Context)
}

func (r *Resolver) resolveSearchProducts(p graphql.ResolveParams) (interface{}, error) {
	text, _ := p.Args["text"].(string)
	products, err := r.Reports.SearchProducts(p.Context, text)
	if err != nil {
		return nil, err
	}
	return ptrProducts(products), nil
}

// Mutations

func (r *Resolver) resolveRegisterUser(p graphql.ResolveParams) (interface{}, error) {
	var input userInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	user, err := r.Auth.Register(p.Context, auth.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Surname:  input.Surname,
	})
	if err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, nil, "user.register", user.Email, "")
	return user, nil
}

func (r *Resolver) resolveAuthenticate(p graphql.ResolveParams) (interface{}, error) {
	var input authInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	token, err := r.Auth.Authenticate(p.Context, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, nil, "user.login", input.Email, "")
	return map[string]interface{}{"token": token}, nil
}

func (r *Resolver) resolveCreateProduct(p graphql.ResolveParams) (interface{}, error) {
	var input productInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalid)
	}
	now := time.Now()
	product := &domain.Product{
		ID:        r.NewID(),
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Products.Create(p.Context, product); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, auth.IdentityFrom(p.Context), "product.create", product.Name, "")
	return product, nil
}

func (r *Resolver) resolveUpdateProduct(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	var input productInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalid)
	}
	product, err := r.Products.GetByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Price = input.Price
	product.Stock = input.Stock
	product.UpdatedAt = time.Now()
	if err := r.Products.Update(p.Context, product); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, auth.IdentityFrom(p.Context), "product.update", product.Name, "")
	return product, nil
}

func (r *Resolver) resolveDeleteProduct(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	if err := r.Products.Delete(p.Context, id); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, auth.IdentityFrom(p.Context), "product.delete", formatID(id), "")
	return "Product deleted", nil
}

func (r *Resolver) resolveCreateClient(p graphql.ResolveParams) (interface{}, error) {
	ident := auth.IdentityFrom(p.Context)
	if err := guard.RequireIdentity(ident); err != nil {
		return nil, err
	}
	var input clientInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	if _, err := r.Clients.GetByEmail(p.Context, input.Email); err == nil {
		return nil, fmt.Errorf("%w: client %s", domain.ErrConflict, input.Email)
	}
	now := time.Now()
	client := &domain.Client{
		ID:        r.NewID(),
		Name:      input.Name,
		Surname:   input.Surname,
		Company:   input.Company,
		Email:     input.Email,
		Phone:     input.Phone,
		SellerID:  ident.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Clients.Create(p.Context, client); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "client.create", client.Email, "")
	return client, nil
}

func (r *Resolver) resolveUpdateClient(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	var input clientInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	client, err := r.Clients.GetByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	ident := auth.IdentityFrom(p.Context)
	if err := guard.AssertOwns(ident, client.SellerID); err != nil {
		return nil, err
	}
	// ownership is immutable; the seller reference never changes here
	client.Name = input.Name
	client.Surname = input.Surname
	client.Company = input.Company
	client.Email = input.Email
	client.Phone = input.Phone
	client.UpdatedAt = time.Now()
	if err := r.Clients.Update(p.Context, client); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "client.update", client.Email, "")
	return client, nil
}

func (r *Resolver) resolveDeleteClient(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	client, err := r.Clients.GetByID(p.Context, id)
	if err != nil {
		return nil, err
	}
	ident := auth.IdentityFrom(p.Context)
	if err := guard.AssertOwns(ident, client.SellerID); err != nil {
		return nil, err
	}

	count, err := r.Clients.CountOrders(p.Context, client.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		switch r.Policy.DeleteClientWithOrders {
		case config.ClientDeleteCascade:
			orders, err := r.Orders.ListByClient(p.Context, client.ID)
			if err != nil {
				return nil, err
			}
			for _, ord := range orders {
				if err := r.Orders.Delete(p.Context, ord.ID); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("%w: client has %d orders", domain.ErrConflict, count)
		}
	}

	if err := r.Clients.Delete(p.Context, client.ID); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "client.delete", client.Email, "")
	return "Client deleted", nil
}

func (r *Resolver) resolvePlaceOrder(p graphql.ResolveParams) (interface{}, error) {
	var input orderInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	clientID, err := parseID(input.Client)
	if err != nil {
		return nil, err
	}
	items, err := toLineItems(input.Items)
	if err != nil {
		return nil, err
	}
	ident := auth.IdentityFrom(p.Context)
	placed, err := r.Workflow.PlaceOrder(p.Context, ident, order.PlaceInput{
		ClientID: clientID,
		Items:    items,
		Status:   input.Status,
	})
	if err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "order.place", formatID(placed.ID), fmt.Sprintf("total=%.2f", placed.Total))
	return placed, nil
}

func (r *Resolver) resolveUpdateOrder(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	var input orderPatchInput
	if err := decodeInput(p.Args["input"], &input); err != nil {
		return nil, err
	}
	patch := order.UpdatePatch{Status: input.Status}
	if input.Client != nil {
		clientID, err := parseID(*input.Client)
		if err != nil {
			return nil, err
		}
		patch.ClientID = &clientID
	}
	if len(input.Items) > 0 {
		items, err := toLineItems(input.Items)
		if err != nil {
			return nil, err
		}
		patch.Items = items
	}
	ident := auth.IdentityFrom(p.Context)
	updated, err := r.Workflow.UpdateOrder(p.Context, ident, id, patch)
	if err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "order.update", formatID(updated.ID), updated.Status)
	return updated, nil
}

func (r *Resolver) resolveCancelOrder(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}
	ident := auth.IdentityFrom(p.Context)
	if err := r.Workflow.CancelOrder(p.Context, ident, id); err != nil {
		return nil, err
	}
	audit.Publish(r.Bus, ident, "order.cancel", formatID(id), "")
	return "Order deleted", nil
}

func toLineItems(inputs []orderItemInput) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(inputs))
	for _, in := range inputs {
		productID, err := parseID(in.Product)
		if err != nil {
			return nil, err
		}
		items = append(items, order.LineItem{ProductID: productID, Quantity: in.Quantity})
	}
	return items, nil
}
