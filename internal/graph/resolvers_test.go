package graph

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/cooscarhuerta/CRMGrapHQL/config"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/auth"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/order"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/report"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/cooscarhuerta/CRMGrapHQL/pkg/common"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type graphHarness struct {
	schema   graphql.Schema
	resolver *Resolver
	db       *gorm.DB
	authsvc  *auth.Service
}

func newGraphHarness(t *testing.T) *graphHarness {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := filepath.Join(t.TempDir(), name+".db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	users := repository.NewGormUserRepository(db)
	authsvc := auth.NewService(users, []byte("graph-test-secret"), common.UUIDint64)
	resolver := &Resolver{
		Auth:     authsvc,
		Workflow: order.NewWorkflow(db, order.Options{}, common.UUIDint64),
		Reports:  report.NewService(db),
		Users:    users,
		Products: repository.NewGormProductRepository(db),
		Clients:  repository.NewGormClientRepository(db),
		Orders:   repository.NewGormOrderRepository(db),
		Bus:      EventBus.New(),
		Policy:   config.PolicyConfig{DeleteClientWithOrders: config.ClientDeleteForbid},
		NewID:    common.UUIDint64,
	}
	schema, err := NewSchema(resolver)
	require.NoError(t, err)
	return &graphHarness{schema: schema, resolver: resolver, db: db, authsvc: authsvc}
}

func (h *graphHarness) exec(t *testing.T, ctx context.Context, query string) map[string]interface{} {
	t.Helper()
	result := graphql.Do(graphql.Params{
		Schema:        h.schema,
		RequestString: query,
		Context:       ctx,
	})
	require.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func (h *graphHarness) execErr(t *testing.T, ctx context.Context, query string) string {
	t.Helper()
	result := graphql.Do(graphql.Params{
		Schema:        h.schema,
		RequestString: query,
		Context:       ctx,
	})
	require.NotEmpty(t, result.Errors, "expected an error")
	return result.Errors[0].Message
}

// login registers a salesperson and returns a context carrying the
// verified identity, the way the web layer hands it to the executor.
func (h *graphHarness) login(t *testing.T, email string) context.Context {
	t.Helper()
	ctx := context.Background()
	_, err := h.authsvc.Register(ctx, auth.RegisterInput{
		Email:    email,
		Password: "pass",
		Name:     "Test",
		Surname:  "Seller",
	})
	require.NoError(t, err)
	token, err := h.authsvc.Authenticate(ctx, email, "pass")
	require.NoError(t, err)
	ident := h.authsvc.Verify(token)
	require.NotNil(t, ident)
	return auth.WithIdentity(ctx, ident)
}

func TestRegisterAndAuthenticateMutations(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()

	data := h.exec(t, ctx, `mutation {
		registerUser(input: {email: "new@corp.test", password: "pw", name: "Nora", surname: "Lane"}) {
			id email name
		}
	}`)
	user := data["registerUser"].(map[string]interface{})
	require.Equal(t, "new@corp.test", user["email"])
	require.NotEmpty(t, user["id"])

	data = h.exec(t, ctx, `mutation {
		authenticate(input: {email: "new@corp.test", password: "pw"}) { token }
	}`)
	token := data["authenticate"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)
	require.NotNil(t, h.authsvc.Verify(token))

	msg := h.execErr(t, ctx, `mutation {
		registerUser(input: {email: "new@corp.test", password: "pw"}) { id }
	}`)
	require.Contains(t, msg, "already registered")

	msg = h.execErr(t, ctx, `mutation {
		authenticate(input: {email: "new@corp.test", password: "nope"}) { token }
	}`)
	require.Contains(t, msg, "bad credentials")
}

func TestCurrentUserQuery(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "me@corp.test")

	data := h.exec(t, ctx, `{ currentUser { email name } }`)
	user := data["currentUser"].(map[string]interface{})
	require.Equal(t, "me@corp.test", user["email"])

	// anonymous callers get null, not an error
	data = h.exec(t, context.Background(), `{ currentUser { email } }`)
	require.Nil(t, data["currentUser"])
}

func TestProductCRUD(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "catalog@corp.test")

	data := h.exec(t, ctx, `mutation {
		createProduct(input: {name: "Monitor 27", price: 310.5, stock: 4}) { id name price stock }
	}`)
	created := data["createProduct"].(map[string]interface{})
	require.Equal(t, "Monitor 27", created["name"])
	require.Equal(t, 310.5, created["price"])
	require.Equal(t, 4, created["stock"])
	id := created["id"].(string)

	data = h.exec(t, ctx, fmt.Sprintf(`mutation {
		updateProduct(id: %q, input: {name: "Monitor 27", price: 280, stock: 6}) { price stock }
	}`, id))
	updated := data["updateProduct"].(map[string]interface{})
	require.Equal(t, 280.0, updated["price"])
	require.Equal(t, 6, updated["stock"])

	data = h.exec(t, ctx, `{ products { name } }`)
	require.Len(t, data["products"].([]interface{}), 1)

	data = h.exec(t, ctx, fmt.Sprintf(`mutation { deleteProduct(id: %q) }`, id))
	require.Equal(t, "Product deleted", data["deleteProduct"])

	msg := h.execErr(t, ctx, fmt.Sprintf(`{ product(id: %q) { name } }`, id))
	require.Contains(t, msg, "not found")
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "catalog@corp.test")

	msg := h.execErr(t, ctx, `mutation {
		createProduct(input: {name: "Bad", price: 1, stock: -1}) { id }
	}`)
	require.Contains(t, msg, "stock cannot be negative")
}

func TestClientOwnership(t *testing.T) {
	h := newGraphHarness(t)
	owner := h.login(t, "owner@corp.test")
	other := h.login(t, "other@corp.test")

	data := h.exec(t, owner, `mutation {
		createClient(input: {name: "Ana", surname: "Ruiz", email: "ana@client.test", company: "ACME"}) { id seller }
	}`)
	created := data["createClient"].(map[string]interface{})
	id := created["id"].(string)

	// the owning seller reads and updates freely
	data = h.exec(t, owner, fmt.Sprintf(`{ client(id: %q) { email } }`, id))
	require.Equal(t, "ana@client.test", data["client"].(map[string]interface{})["email"])

	// any other seller is rejected
	msg := h.execErr(t, other, fmt.Sprintf(`{ client(id: %q) { email } }`, id))
	require.Contains(t, msg, "insufficient credentials")

	msg = h.execErr(t, other, fmt.Sprintf(`mutation {
		updateClient(id: %q, input: {name: "X", email: "ana@client.test"}) { id }
	}`, id))
	require.Contains(t, msg, "insufficient credentials")

	// anonymous creation is rejected outright
	msg = h.execErr(t, context.Background(), `mutation {
		createClient(input: {name: "Ghost", email: "ghost@client.test"}) { id }
	}`)
	require.Contains(t, msg, "authentication required")

	// duplicate client email conflicts
	msg = h.execErr(t, owner, `mutation {
		createClient(input: {name: "Dup", email: "ana@client.test"}) { id }
	}`)
	require.Contains(t, msg, "already registered")
}

func TestMyClientsFiltersBySeller(t *testing.T) {
	h := newGraphHarness(t)
	first := h.login(t, "first@corp.test")
	second := h.login(t, "second@corp.test")

	h.exec(t, first, `mutation { createClient(input: {name: "A", email: "a@client.test"}) { id } }`)
	h.exec(t, first, `mutation { createClient(input: {name: "B", email: "b@client.test"}) { id } }`)
	h.exec(t, second, `mutation { createClient(input: {name: "C", email: "c@client.test"}) { id } }`)

	data := h.exec(t, first, `{ myClients { email } }`)
	require.Len(t, data["myClients"].([]interface{}), 2)

	data = h.exec(t, second, `{ myClients { email } }`)
	require.Len(t, data["myClients"].([]interface{}), 1)
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "sales@corp.test")

	data := h.exec(t, ctx, `mutation {
		createProduct(input: {name: "Dock", price: 120, stock: 5}) { id }
	}`)
	productID := data["createProduct"].(map[string]interface{})["id"].(string)

	data = h.exec(t, ctx, `mutation {
		createClient(input: {name: "Ana", email: "ana@client.test"}) { id }
	}`)
	clientID := data["createClient"].(map[string]interface{})["id"].(string)

	data = h.exec(t, ctx, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 3}]}) {
			id status total
			items { quantity price }
			client { email }
		}
	}`, clientID, productID))
	placed := data["placeOrder"].(map[string]interface{})
	require.Equal(t, "PENDING", placed["status"])
	require.Equal(t, 360.0, placed["total"])
	items := placed["items"].([]interface{})
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].(map[string]interface{})["quantity"])
	require.Equal(t, "ana@client.test", placed["client"].(map[string]interface{})["email"])

	data = h.exec(t, ctx, fmt.Sprintf(`{ product(id: %q) { stock } }`, productID))
	require.Equal(t, 2, data["product"].(map[string]interface{})["stock"])

	// remaining stock cannot cover the same request again
	msg := h.execErr(t, ctx, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 3}]}) { id }
	}`, clientID, productID))
	require.Contains(t, msg, "exceeds available stock")

	data = h.exec(t, ctx, `{ myOrders { id status } }`)
	require.Len(t, data["myOrders"].([]interface{}), 1)

	data = h.exec(t, ctx, `{ ordersByStatus(status: "PENDING") { id } }`)
	require.Len(t, data["ordersByStatus"].([]interface{}), 1)
}

func TestOrderLifecycleMutations(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "sales@corp.test")

	data := h.exec(t, ctx, `mutation {
		createProduct(input: {name: "Desk", price: 200, stock: 10}) { id }
	}`)
	productID := data["createProduct"].(map[string]interface{})["id"].(string)
	data = h.exec(t, ctx, `mutation {
		createClient(input: {name: "Luis", email: "luis@client.test"}) { id }
	}`)
	clientID := data["createClient"].(map[string]interface{})["id"].(string)

	data = h.exec(t, ctx, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 2}]}) { id }
	}`, clientID, productID))
	orderID := data["placeOrder"].(map[string]interface{})["id"].(string)

	data = h.exec(t, ctx, fmt.Sprintf(`mutation {
		updateOrder(id: %q, input: {status: "COMPLETED"}) { status }
	}`, orderID))
	require.Equal(t, "COMPLETED", data["updateOrder"].(map[string]interface{})["status"])

	// completed revenue now feeds the rankings
	data = h.exec(t, ctx, `{ topClients { total client { email } } }`)
	top := data["topClients"].([]interface{})
	require.Len(t, top, 1)
	require.Equal(t, 400.0, top[0].(map[string]interface{})["total"])

	data = h.exec(t, ctx, `{ topSellers { total seller { email } } }`)
	sellers := data["topSellers"].([]interface{})
	require.Len(t, sellers, 1)
	require.Equal(t, "sales@corp.test",
		sellers[0].(map[string]interface{})["seller"].(map[string]interface{})["email"])

	data = h.exec(t, ctx, fmt.Sprintf(`mutation { cancelOrder(id: %q) }`, orderID))
	require.Equal(t, "Order deleted", data["cancelOrder"])

	msg := h.execErr(t, ctx, fmt.Sprintf(`{ order(id: %q) { id } }`, orderID))
	require.Contains(t, msg, "not found")
}

func TestForeignOrderAccessForbidden(t *testing.T) {
	h := newGraphHarness(t)
	owner := h.login(t, "owner@corp.test")
	intruder := h.login(t, "intruder@corp.test")

	data := h.exec(t, owner, `mutation {
		createProduct(input: {name: "Lamp", price: 15, stock: 5}) { id }
	}`)
	productID := data["createProduct"].(map[string]interface{})["id"].(string)
	data = h.exec(t, owner, `mutation {
		createClient(input: {name: "Eva", email: "eva@client.test"}) { id }
	}`)
	clientID := data["createClient"].(map[string]interface{})["id"].(string)
	data = h.exec(t, owner, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 1}]}) { id }
	}`, clientID, productID))
	orderID := data["placeOrder"].(map[string]interface{})["id"].(string)

	msg := h.execErr(t, intruder, fmt.Sprintf(`{ order(id: %q) { id } }`, orderID))
	require.Contains(t, msg, "insufficient credentials")

	msg = h.execErr(t, intruder, fmt.Sprintf(`mutation { cancelOrder(id: %q) }`, orderID))
	require.Contains(t, msg, "insufficient credentials")

	// placing an order against another seller's client is equally rejected
	msg = h.execErr(t, intruder, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 1}]}) { id }
	}`, clientID, productID))
	require.Contains(t, msg, "insufficient credentials")
}

func TestDeleteClientWithOrdersForbidPolicy(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "sales@corp.test")

	data := h.exec(t, ctx, `mutation {
		createProduct(input: {name: "Chair", price: 90, stock: 5}) { id }
	}`)
	productID := data["createProduct"].(map[string]interface{})["id"].(string)
	data = h.exec(t, ctx, `mutation {
		createClient(input: {name: "Rob", email: "rob@client.test"}) { id }
	}`)
	clientID := data["createClient"].(map[string]interface{})["id"].(string)
	h.exec(t, ctx, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 1}]}) { id }
	}`, clientID, productID))

	msg := h.execErr(t, ctx, fmt.Sprintf(`mutation { deleteClient(id: %q) }`, clientID))
	require.Contains(t, msg, "orders")
}

func TestDeleteClientWithOrdersCascadePolicy(t *testing.T) {
	h := newGraphHarness(t)
	h.resolver.Policy.DeleteClientWithOrders = config.ClientDeleteCascade
	ctx := h.login(t, "sales@corp.test")

	data := h.exec(t, ctx, `mutation {
		createProduct(input: {name: "Shelf", price: 60, stock: 5}) { id }
	}`)
	productID := data["createProduct"].(map[string]interface{})["id"].(string)
	data = h.exec(t, ctx, `mutation {
		createClient(input: {name: "Mia", email: "mia@client.test"}) { id }
	}`)
	clientID := data["createClient"].(map[string]interface{})["id"].(string)
	h.exec(t, ctx, fmt.Sprintf(`mutation {
		placeOrder(input: {client: %q, items: [{product: %q, quantity: 1}]}) { id }
	}`, clientID, productID))

	data = h.exec(t, ctx, fmt.Sprintf(`mutation { deleteClient(id: %q) }`, clientID))
	require.Equal(t, "Client deleted", data["deleteClient"])

	data = h.exec(t, ctx, `{ myOrders { id } }`)
	require.Empty(t, data["myOrders"])
}

func TestSearchProductsQuery(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "sales@corp.test")

	h.exec(t, ctx, `mutation { createProduct(input: {name: "Gaming Laptop", price: 1500, stock: 2}) { id } }`)
	h.exec(t, ctx, `mutation { createProduct(input: {name: "Office Laptop", price: 800, stock: 3}) { id } }`)
	h.exec(t, ctx, `mutation { createProduct(input: {name: "Keyboard", price: 40, stock: 9}) { id } }`)

	data := h.exec(t, ctx, `{ searchProducts(text: "laptop") { name } }`)
	require.Len(t, data["searchProducts"].([]interface{}), 2)
}

func TestMalformedIDRejected(t *testing.T) {
	h := newGraphHarness(t)
	ctx := h.login(t, "sales@corp.test")

	msg := h.execErr(t, ctx, `{ product(id: "abc") { name } }`)
	require.Contains(t, msg, "malformed id")
}
