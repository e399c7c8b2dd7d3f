package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exampleQuery is one teaching query shown by the examples command.
type exampleQuery struct {
	Title string
	SQL   string
}

// exampleQueries are ready-to-run scripts for learning SQL with the sql
// command, from table creation through joins and catalog introspection.
var exampleQueries = []exampleQuery{
	{
		Title: "Create tables (PK/FK)",
		SQL: `CREATE TABLE customers (
  customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT UNIQUE
);
CREATE TABLE products (
  product_id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  price REAL
);
CREATE TABLE orders (
  order_id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  ordered TEXT DEFAULT (datetime('now','localtime')),
  FOREIGN KEY (customer_id) REFERENCES customers(customer_id),
  FOREIGN KEY (product_id) REFERENCES products(product_id)
);`,
	},
	{
		Title: "Seed data",
		SQL: `INSERT INTO customers (name, email) VALUES
('Alice','alice@example.com'),
('Bob','bob@example.com');
INSERT INTO products (title, price) VALUES
('Coffee maker',79.99),
('Toaster',29.95);
INSERT INTO orders (customer_id, product_id) VALUES
(1,1),(2,2),(1,2);`,
	},
	{
		Title: "All tables",
		SQL:   `SELECT name FROM sqlite_master WHERE type='table';`,
	},
	{
		Title: "Structure: orders",
		SQL:   `SELECT * FROM pragma_table_info('orders');`,
	},
	{
		Title: "Foreign keys: orders",
		SQL:   `SELECT * FROM pragma_foreign_key_list('orders');`,
	},
	{
		Title: "Join example",
		SQL: `SELECT o.order_id, c.name AS customer, p.title AS product, o.ordered
FROM orders o
JOIN customers c ON o.customer_id = c.customer_id
JOIN products p ON o.product_id = p.product_id;`,
	},
}

func (a *app) examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Print example queries to try with the sql command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, ex := range exampleQueries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "-- %s\n%s\n", ex.Title, ex.SQL)
			}
			return nil
		},
	}
}
