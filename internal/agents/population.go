package agents

import (
	"fmt"
	"math/rand/v2"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

var customerNames = []string{
	"Alice Johnson", "Bob Wilson", "Carol Smith", "David Brown", "Emma Davis",
	"Frank Miller", "Grace Taylor", "Henry Garcia", "Ivy Martinez", "Jack Rodriguez",
}

var staff = []struct{ name, role string }{
	{"Sarah Manager", "Store Manager"},
	{"Mike Associate", "Sales Associate"},
	{"Lisa Clerk", "Inventory Clerk"},
}

type title struct {
	name, author, genre string
	price               float64
}

var catalog = []title{
	{"The Great Adventure", "John Smith", "Adventure", 24.99},
	{"Mystery of the Lost City", "Jane Doe", "Mystery", 19.99},
	{"Science and Wonder", "Dr. Alan Brown", "Science", 34.99},
	{"Fantasy Realms", "Sarah Wilson", "Fantasy", 22.99},
	{"Modern Philosophy", "Prof. David Lee", "Philosophy", 29.99},
	{"Art Through the Ages", "Maria Garcia", "Art", 39.99},
	{"Digital Revolution", "Tech Expert", "Technology", 27.99},
	{"Classic Literature", "Various Authors", "Literature", 16.99},
	{"Space Exploration", "NASA Scientists", "Science", 31.99},
	{"Psychology Today", "Dr. Emma Clark", "Psychology", 25.99},
}

// Entity id helpers.
func CustomerID(i int) ir.EntityID { return ir.EntityID(fmt.Sprintf("customer_%d", i)) }
func EmployeeID(i int) ir.EntityID { return ir.EntityID(fmt.Sprintf("employee_%d", i)) }
func BookID(i int) ir.EntityID     { return ir.EntityID(fmt.Sprintf("book_%d", i)) }

// Populator returns a function that seeds a store with the reference
// population. The same seed always yields the same population, which
// makes it suitable for engine.WithPopulator.
//
// Books are assigned to employees round-robin through the manages relation.
func Populator(pop config.PopulationConfig, seed int64) func(*facts.Store) error {
	return func(s *facts.Store) error {
		rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))

		for i := 0; i < pop.Customers; i++ {
			name := customerNames[i%len(customerNames)]
			if i >= len(customerNames) {
				name = fmt.Sprintf("%s %d", name, i/len(customerNames)+1)
			}
			err := s.Add(ir.Entity{ID: CustomerID(i), Type: ir.Customer}, map[string]ir.Value{
				ir.AttrName:         ir.String(name),
				ir.AttrBudget:       ir.Number(round2(100 + rng.Float64()*200)),
				ir.AttrPurchases:    ir.NewRefs(),
				ir.AttrSatisfaction: ir.Number(50),
			})
			if err != nil {
				return err
			}
		}

		managed := make([]ir.Refs, pop.Employees)
		for i := 0; i < pop.Books && pop.Employees > 0; i++ {
			e := i % pop.Employees
			managed[e] = managed[e].With(BookID(i))
		}
		for i := 0; i < pop.Employees; i++ {
			member := staff[i%len(staff)]
			name := member.name
			if i >= len(staff) {
				name = fmt.Sprintf("%s %d", name, i/len(staff)+1)
			}
			err := s.Add(ir.Entity{ID: EmployeeID(i), Type: ir.Employee}, map[string]ir.Value{
				ir.AttrName:        ir.String(name),
				ir.AttrRole:        ir.String(member.role),
				ir.AttrManages:     ir.NewRefs(managed[i]...),
				ir.AttrPerformance: ir.Number(50),
				ir.AttrRestocks:    ir.Number(0),
			})
			if err != nil {
				return err
			}
		}

		for i := 0; i < pop.Books; i++ {
			t := catalog[i%len(catalog)]
			name := t.name
			if i >= len(catalog) {
				name = fmt.Sprintf("%s Vol %d", name, i/len(catalog)+1)
			}
			err := s.Add(ir.Entity{ID: BookID(i), Type: ir.Book}, map[string]ir.Value{
				ir.AttrTitle:            ir.String(name),
				ir.AttrAuthor:           ir.String(t.author),
				ir.AttrGenre:            ir.String(t.genre),
				ir.AttrPrice:            ir.Number(t.price),
				ir.AttrBasePrice:        ir.Number(t.price),
				ir.AttrQuantity:         ir.Number(float64(15 + rng.IntN(21))),
				ir.AttrRestockThreshold: ir.Number(float64(3 + rng.IntN(6))),
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
