package services

import (
	"context"
	"fmt"
	"time"
)

// Customer represents one customers row
type Customer struct {
	ID        string    `json:"customer_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Product represents one products row
type Product struct {
	ID        string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction represents one sale
type Transaction struct {
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// SampleCustomers returns simple demo customers
func SampleCustomers() []Customer {
	return []Customer{
		{ID: "c001", Name: "Ada Lovelace", Email: "ada@example.com"},
		{ID: "c002", Name: "Grace Hopper", Email: "grace@example.com"},
		{ID: "c003", Name: "Alan Turing", Email: "alan@example.com"},
	}
}

// SampleProducts returns simple demo products
func SampleProducts() []Product {
	return []Product{
		{ID: "nb001", Name: "MacBook Pro", Price: 1999, Category: "laptops"},
		{ID: "nb002", Name: "ThinkPad X1", Price: 1499, Category: "laptops"},
		{ID: "pc001", Name: "iMac 24-inch", Price: 1299, Category: "desktops"},
		{ID: "acc001", Name: "Magic Mouse", Price: 79, Category: "accessories"},
	}
}

// SampleTransactions spreads demo sales over the months before now
func SampleTransactions(now time.Time) []Transaction {
	customers := SampleCustomers()
	products := SampleProducts()

	var transactions []Transaction
	for i := 0; i < 12; i++ {
		c := customers[i%len(customers)]
		p := products[i%len(products)]
		transactions = append(transactions, Transaction{
			CustomerID: c.ID,
			ProductID:  p.ID,
			Amount:     p.Price,
			CreatedAt:  now.AddDate(0, 0, -i*20),
		})
	}
	return transactions
}

// Seed loads the sample catalog into an empty or existing store
func Seed(ctx context.Context, store *SQLStore, now time.Time) error {
	for _, c := range SampleCustomers() {
		c.CreatedAt = now
		if err := store.AddCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}
	for _, p := range SampleProducts() {
		p.CreatedAt = now
		if err := store.AddProduct(ctx, p); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	for _, t := range SampleTransactions(now) {
		if err := store.AddTransaction(ctx, t); err != nil {
			return fmt.Errorf("seed transactions: %w", err)
		}
	}
	return nil
}
