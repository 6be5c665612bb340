// Package graph wires the CRM operations into a GraphQL schema.
package graph

import "github.com/graphql-go/graphql"

// NewSchema assembles the executable schema around the resolver set.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := newUserType()
	tokenType := newTokenType()
	productType := newProductType()
	clientType := newClientType()
	orderItemType := newOrderItemType()
	orderType := newOrderType(clientType, orderItemType, r)
	topClientType := newTopClientType(clientType)
	topSellerType := newTopSellerType(userType)

	userInputType := newUserInputType()
	authInputType := newAuthInputType()
	productInputType := newProductInputType()
	clientInputType := newClientInputType()
	orderItemInputType := newOrderItemInputType()
	orderInputType := newOrderInputType(orderItemInputType)

	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"currentUser": &graphql.Field{
				Type:    userType,
				Resolve: r.resolveCurrentUser,
			},
			"products": &graphql.Field{
				Type:    graphql.NewList(productType),
				Resolve: r.resolveProducts,
			},
			"product": &graphql.Field{
				Type:    productType,
				Args:    idArg,
				Resolve: r.resolveProduct,
			},
			"clients": &graphql.Field{
				Type:    graphql.NewList(clientType),
				Resolve: r.resolveClients,
			},
			"myClients": &graphql.Field{
				Type:    graphql.NewList(clientType),
				Resolve: r.resolveMyClients,
			},
			"client": &graphql.Field{
				Type:    clientType,
				Args:    idArg,
				Resolve: r.resolveClient,
			},
			"orders": &graphql.Field{
				Type:    graphql.NewList(orderType),
				Resolve: r.resolveOrders,
			},
			"myOrders": &graphql.Field{
				Type:    graphql.NewList(orderType),
				Resolve: r.resolveMyOrders,
			},
			"order": &graphql.Field{
				Type:    orderType,
				Args:    idArg,
				Resolve: r.resolveOrder,
			},
			"ordersByStatus": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveOrdersByStatus,
			},
			"topClients": &graphql.Field{
				Type:    graphql.NewList(topClientType),
				Resolve: r.resolveTopClients,
			},
			"topSellers": &graphql.Field{
				Type:    graphql.NewList(topSellerType),
				Resolve: r.resolveTopSellers,
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveSearchProducts,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"registerUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: r.resolveRegisterUser,
			},
			"authenticate": &graphql.Field{
				Type: tokenType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(authInputType)},
				},
				Resolve: r.resolveAuthenticate,
			},
			"createProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: r.resolveCreateProduct,
			},
			"updateProduct": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: r.resolveUpdateProduct,
			},
			"deleteProduct": &graphql.Field{
				Type:    graphql.String,
				Args:    idArg,
				Resolve: r.resolveDeleteProduct,
			},
			"createClient": &graphql.Field{
				Type: clientType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(clientInputType)},
				},
				Resolve: r.resolveCreateClient,
			},
			"updateClient": &graphql.Field{
				Type: clientType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(clientInputType)},
				},
				Resolve: r.resolveUpdateClient,
			},
			"deleteClient": &graphql.Field{
				Type:    graphql.String,
				Args:    idArg,
				Resolve: r.resolveDeleteClient,
			},
			"placeOrder": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInputType)},
				},
				Resolve: r.resolvePlaceOrder,
			},
			"updateOrder": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInputType)},
				},
				Resolve: r.resolveUpdateOrder,
			},
			"cancelOrder": &graphql.Field{
				Type:    graphql.String,
				Args:    idArg,
				Resolve: r.resolveCancelOrder,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
