// Package categorization assigns categories to expense descriptions that carry no explicit tag.
// Known merchant keywords are matched in a single Aho-Corasick pass; misspelled merchants fall
// back to fuzzy matching.
package categorization

// Keyword maps a merchant fragment to a category.
type Keyword struct {
	Pattern  string
	Category string
	// Priority breaks ties when several keywords match; higher wins.
	Priority int
}

// DefaultKeywords covers common Indian merchants and payees.
var DefaultKeywords = []Keyword{
	{Pattern: "swiggy", Category: "Food"},
	{Pattern: "zomato", Category: "Food"},
	{Pattern: "dominos", Category: "Food"},
	{Pattern: "starbucks", Category: "Food"},
	{Pattern: "chai", Category: "Food"},
	{Pattern: "cafe", Category: "Food"},
	{Pattern: "restaurant", Category: "Food"},
	{Pattern: "uber", Category: "Transport"},
	{Pattern: "ola", Category: "Transport"},
	{Pattern: "rapido", Category: "Transport"},
	{Pattern: "irctc", Category: "Transport", Priority: 10},
	{Pattern: "metro", Category: "Transport"},
	{Pattern: "petrol", Category: "Fuel"},
	{Pattern: "indian oil", Category: "Fuel", Priority: 10},
	{Pattern: "hpcl", Category: "Fuel"},
	{Pattern: "bpcl", Category: "Fuel"},
	{Pattern: "bigbasket", Category: "Groceries"},
	{Pattern: "big bazaar", Category: "Groceries"},
	{Pattern: "blinkit", Category: "Groceries"},
	{Pattern: "zepto", Category: "Groceries"},
	{Pattern: "dmart", Category: "Groceries"},
	{Pattern: "kirana", Category: "Groceries"},
	{Pattern: "amazon", Category: "Shopping"},
	{Pattern: "flipkart", Category: "Shopping"},
	{Pattern: "myntra", Category: "Shopping"},
	{Pattern: "ajio", Category: "Shopping"},
	{Pattern: "netflix", Category: "Entertainment"},
	{Pattern: "hotstar", Category: "Entertainment"},
	{Pattern: "spotify", Category: "Entertainment"},
	{Pattern: "bookmyshow", Category: "Entertainment"},
	{Pattern: "airtel", Category: "Bills"},
	{Pattern: "jio", Category: "Bills"},
	{Pattern: "electricity", Category: "Bills"},
	{Pattern: "bescom", Category: "Bills"},
	{Pattern: "broadband", Category: "Bills"},
	{Pattern: "pharmacy", Category: "Health"},
	{Pattern: "apollo", Category: "Health"},
	{Pattern: "medplus", Category: "Health"},
	{Pattern: "hospital", Category: "Health"},
	{Pattern: "rent", Category: "Rent"},
}
