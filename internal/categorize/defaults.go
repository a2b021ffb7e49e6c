package categorize

// DefaultVersion is the version of the built-in rule book.
const DefaultVersion = 3

// DefaultRuleBook returns the built-in keyword tables.
func DefaultRuleBook() *RuleBook {
	return &RuleBook{
		Version: DefaultVersion,
		Import:  importTable(),
		Free:    freeTable(),
		Income:  incomeTable(),
		Expense: expenseTable(),
	}
}

func importTable() Table {
	return Table{
		{Category: "Transport", Keywords: []string{"uber", "lyft", "taxi", "gas station", "shell", "parking", "toll"}},
		{Category: "Food", Keywords: []string{"restaurant", "ifood", "doordash", "mcdonald", "burger", "pizza", "cafe", "starbucks", "bakery"}},
		{Category: "Groceries", Keywords: []string{"supermarket", "grocery", "walmart", "costco", "whole foods"}},
		{Category: "Subscriptions", Keywords: []string{"netflix", "spotify", "youtube", "disney", "prime video", "hbo"}},
		{Category: "Utilities", Keywords: []string{"electric", "energy", "water bill", "internet", "telecom", "phone bill"}},
		{Category: "Health", Keywords: []string{"pharmacy", "drugstore", "hospital", "clinic"}},
		{Category: "Salary", Keywords: []string{"salary", "payroll", "paycheck"}},
		{Category: "Transfers", Keywords: []string{"transfer", "pix", "zelle", "venmo"}},
	}
}

func freeTable() Table {
	return Table{
		{Category: "Food", Keywords: []string{"restaurant", "lunch", "dinner", "cafe", "pizza"}},
		{Category: "Transport", Keywords: []string{"uber", "taxi", "fuel", "parking"}},
		{Category: "Salary", Keywords: []string{"salary", "payroll"}},
		{Category: "Bills", Keywords: []string{"electric", "water", "internet", "phone"}},
	}
}

func incomeTable() Table {
	return Table{
		{Category: "Salary", Keywords: []string{"salary", "payroll", "paycheck", "wage"}},
		{Category: "Sales", Keywords: []string{"invoice", "sale", "stripe payout", "square payout", "shopify"}},
		{Category: "Services", Keywords: []string{"consulting", "freelance", "commission", "fee"}},
		{Category: "Investments", Keywords: []string{"dividend", "interest", "yield", "coupon"}},
		{Category: "Refunds", Keywords: []string{"refund", "cashback", "reimbursement", "chargeback"}},
		{Category: "Rental Income", Keywords: []string{"rent received", "tenant"}},
	}
}

func expenseTable() Table {
	return Table{
		{Category: "Housing", Keywords: []string{"rent", "mortgage", "condo", "hoa"}},
		{Category: "Transport", Keywords: []string{"uber", "lyft", "taxi", "fuel", "gas station", "parking", "toll"}},
		{Category: "Food", Keywords: []string{"restaurant", "ifood", "doordash", "lunch", "dinner", "cafe", "pizza", "bakery"}},
		{Category: "Groceries", Keywords: []string{"supermarket", "grocery", "walmart", "costco"}},
		{Category: "Software", Keywords: []string{"github", "aws", "google workspace", "microsoft", "adobe", "slack", "notion"}},
		{Category: "Marketing", Keywords: []string{"facebook ads", "google ads", "linkedin", "mailchimp"}},
		{Category: "Subscriptions", Keywords: []string{"netflix", "spotify", "youtube", "disney"}},
		{Category: "Utilities", Keywords: []string{"electric", "energy", "water", "internet", "phone"}},
		{Category: "Health", Keywords: []string{"pharmacy", "hospital", "clinic", "dentist", "gym"}},
		{Category: "Education", Keywords: []string{"course", "tuition", "udemy", "school", "books"}},
		{Category: "Taxes", Keywords: []string{"irs", "tax", "vat"}},
		{Category: "Professional Services", Keywords: []string{"accountant", "lawyer", "legal", "notary"}},
	}
}
