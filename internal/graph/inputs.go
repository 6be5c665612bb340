package graph

import (
	"fmt"
	"strconv"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"
)

// decodeInput maps a GraphQL argument map onto a typed input struct.
func decodeInput(raw interface{}, out interface{}) error {
	if raw == nil {
		return fmt.Errorf("%w: missing input", domain.ErrInvalid)
	}
	if err := mapstructure.Decode(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	return nil
}

// parseID converts a GraphQL ID argument to the internal identifier.
func parseID(raw interface{}) (int64, error) {
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%w: id must be a string", domain.ErrInvalid)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed id %q", domain.ErrInvalid, s)
	}
	return id, nil
}

type userInput struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Surname  string `mapstructure:"surname"`
}

type authInput struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type productInput struct {
	Name  string  `mapstructure:"name"`
	Price float64 `mapstructure:"price"`
	Stock int     `mapstructure:"stock"`
}

type clientInput struct {
	Name    string `mapstructure:"name"`
	Surname string `mapstructure:"surname"`
	Company string `mapstructure:"company"`
	Email   string `mapstructure:"email"`
	Phone   string `mapstructure:"phone"`
}

type orderItemInput struct {
	Product  string `mapstructure:"product"`
	Quantity int    `mapstructure:"quantity"`
}

type orderInput struct {
	Client string           `mapstructure:"client"`
	Items  []orderItemInput `mapstructure:"items"`
	Status string           `mapstructure:"status"`
}

// orderPatchInput keeps absent fields nil so updates stay partial.
type orderPatchInput struct {
	Client *string          `mapstructure:"client"`
	Items  []orderItemInput `mapstructure:"items"`
	Status *string          `mapstructure:"status"`
}

func newUserInputType() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"surname":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}

func newAuthInputType() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AuthInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

func newProductInputType() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price": &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"stock": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
}

func newClientInputType() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ClientInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"surname": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"company": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}

func newOrderItemInputType() *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderItemInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"product":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"quantity": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

func newOrderInputType(itemInput *graphql.InputObject) *graphql.InputObject {
	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"client": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"items":  &graphql.InputObjectFieldConfig{Type: graphql.NewList(itemInput)},
			"status": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
}
