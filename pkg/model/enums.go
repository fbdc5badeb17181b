package model

// Lifecycle phases in display order.
var Phases = []string{
	"Design",
	"Development",
	"Pre-market",
	"Operation",
	"Incident Response",
	"Disposal",
}

// Roles in display order. Non-manufacturer subjects are all filed under
// "Other".
var Roles = []string{
	"Development Engineer",
	"Security Architect",
	"Quality Assurance",
	"Regulatory Affairs",
	"Product Manager",
	"Operations Engineer",
	"Incident Response Specialist",
	"Other",
}

var Subjects = []string{
	"Manufacturer",
	"Healthcare Provider",
	"Regulatory Authority",
}

var Priorities = []string{"Shall", "Should"}

var Statuses = []string{
	"Not Started",
	"In Progress",
	"Compliant",
	"Non-Compliant",
	"Not Applicable",
}
