package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/ErlanBelekov/habit-tracker/internal/domain"
	"github.com/ErlanBelekov/habit-tracker/internal/metrics"
)

// NewSchema composes the type contract with a resolver set. The schema owns
// required/optional shapes (non-null title, non-null id); deeper invariants
// the type system cannot express (non-empty title, ownership) live below,
// in the usecase and repository.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	habitType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Habit",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Habit).ID, nil
				},
			},
			"owner": &graphql.Field{
				// Every habit a resolver returns is already scoped to the
				// caller, so this only ever exposes the caller's own subject.
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Habit).OwnerID, nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.Habit).Title, nil
				},
			},
		},
	})

	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateHabitInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	updateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateHabitInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"habits": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(habitType))),
				Resolve: instrument("habits", r.Habits),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createHabit": &graphql.Field{
				Type: graphql.NewNonNull(habitType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
				},
				Resolve: instrument("createHabit", r.CreateHabit),
			},
			"updateHabit": &graphql.Field{
				Type: graphql.NewNonNull(habitType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInput)},
				},
				Resolve: instrument("updateHabit", r.UpdateHabit),
			},
			"deleteHabit": &graphql.Field{
				Type: graphql.NewNonNull(habitType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: instrument("deleteHabit", r.DeleteHabit),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func instrument(field string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		out, err := resolve(p)

		outcome := "ok"
		if err != nil {
			outcome = "error"
			if fe, ok := err.(*FieldError); ok {
				outcome = fe.Code
			}
		}
		metrics.FieldResolutionDuration.WithLabelValues(field).Observe(time.Since(start).Seconds())
		metrics.FieldResolutionsTotal.WithLabelValues(field, outcome).Inc()

		return out, err
	}
}
