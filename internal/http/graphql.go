package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"github.com/catalog-admin-public/internal/catalog"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"category":    &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
	},
})

func productFieldArgs(withID bool) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"category":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
	if withID {
		args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	}
	return args
}

// NewGraphQLSchema exposes the catalog as a products query plus CRUD mutations.
func NewGraphQLSchema(products ProductService) (graphql.Schema, error) {
	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := products.List(p.Context)
					if err != nil {
						return nil, graphQLError(err, msgListFailed)
					}
					return list, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					product, err := products.Get(p.Context, id)
					if err != nil {
						return nil, graphQLError(err, msgGetFailed)
					}
					return product, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProduct": &graphql.Field{
				Type: productType,
				Args: productFieldArgs(false),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					product, err := products.Create(p.Context, fieldsFromArgs(p.Args))
					if err != nil {
						return nil, graphQLError(err, msgCreateFailed)
					}
					return product, nil
				},
			},
			"updateProduct": &graphql.Field{
				Type: productType,
				Args: productFieldArgs(true),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					product, err := products.Update(p.Context, id, fieldsFromArgs(p.Args))
					if err != nil {
						return nil, graphQLError(err, msgUpdateFailed)
					}
					return product, nil
				},
			},
			"deleteProduct": &graphql.Field{
				Type: graphql.Boolean,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					if err := products.Delete(p.Context, id); err != nil {
						return nil, graphQLError(err, msgDeleteFailed)
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// NewGraphQLHandler serves the schema over GET and POST, with GraphiQL when enabled.
func NewGraphQLHandler(products ProductService, graphiql bool) (http.Handler, error) {
	schema, err := NewGraphQLSchema(products)
	if err != nil {
		return nil, err
	}
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: graphiql,
	}), nil
}

func fieldsFromArgs(args map[string]any) catalog.Fields {
	var f catalog.Fields
	f.Name, _ = args["name"].(string)
	f.Price, _ = args["price"].(float64)
	f.Category, _ = args["category"].(string)
	f.Description, _ = args["description"].(string)
	return f
}

// graphQLError hides storage details behind the same messages the REST API uses.
func graphQLError(err error, failure string) error {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return errors.New(msgFieldsRequired + ": " + strings.Join(verr.Fields, ", "))
	case errors.Is(err, catalog.ErrNotFound):
		return errors.New(msgNotFound)
	default:
		return errors.New(failure)
	}
}
