package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// Definition is one registry entry describing a known form type. Required
// indicators anchor the match: a document matching none of them can never be
// classified as this schema. Optional indicators only strengthen confidence.
// Declaration order in the registry encodes specificity; earlier entries win
// confidence ties.
type Definition struct {
	SchemaID           string   `json:"schema_id"`
	Category           string   `json:"category"`
	RequiredIndicators []string `json:"required_indicators"`
	OptionalIndicators []string `json:"optional_indicators"`
	ExpectedFields     []string `json:"expected_fields"`
}

// DefinitionSet is the on-disk format for additional schema definitions.
type DefinitionSet struct {
	Version     string            `json:"version,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	Definitions []Definition      `json:"definitions"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Registry is the ordered set of schema definitions. It is loaded once at
// startup and read-only afterwards.
type Registry struct {
	defs  []Definition
	byID  map[string]int
}

// NewRegistry builds a registry over the built-in definitions.
func NewRegistry() *Registry {
	return newRegistry(defaultDefinitions())
}

// NewEmptyRegistry builds a registry with no definitions, for callers that
// supply their own.
func NewEmptyRegistry() *Registry {
	return newRegistry(nil)
}

func newRegistry(defs []Definition) *Registry {
	r := &Registry{byID: make(map[string]int)}
	for _, def := range defs {
		r.Add(def)
	}
	return r
}

// Add appends a definition. Re-adding an existing schema id replaces the
// definition but keeps its original position, preserving tie-break order.
func (r *Registry) Add(def Definition) {
	if idx, ok := r.byID[def.SchemaID]; ok {
		r.defs[idx] = def
		return
	}
	r.byID[def.SchemaID] = len(r.defs)
	r.defs = append(r.defs, def)
}

// LoadFile reads a DefinitionSet JSON file and appends its definitions.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema registry file: %w", err)
	}

	var set DefinitionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to parse schema registry: %w", err)
	}

	for _, def := range set.Definitions {
		if def.SchemaID == "" {
			return fmt.Errorf("%w: schema definition without an id", forms.ErrInvalidInput)
		}
		r.Add(def)
	}
	return nil
}

// Get returns the definition for a schema id.
func (r *Registry) Get(schemaID string) (Definition, error) {
	idx, ok := r.byID[schemaID]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", forms.ErrUnknownSchema, schemaID)
	}
	return r.defs[idx], nil
}

// ExpectedFields returns the expected field list for a schema id, or nil
// when the schema is not registered.
func (r *Registry) ExpectedFields(schemaID string) []string {
	idx, ok := r.byID[schemaID]
	if !ok {
		return nil
	}
	out := make([]string, len(r.defs[idx].ExpectedFields))
	copy(out, r.defs[idx].ExpectedFields)
	return out
}

// Definitions returns the registry entries in declaration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// defaultDefinitions is the built-in form-type table. More specific schemas
// are declared before broader ones in each category.
func defaultDefinitions() []Definition {
	return []Definition{
		// Tax forms
		{
			SchemaID: "w2",
			Category: "tax",
			RequiredIndicators: []string{
				"w-2", "wage and tax statement", "employee ssn",
			},
			OptionalIndicators: []string{
				"employee's social security",
				"employer identification number", "ein",
				"federal income tax withheld", "social security wages",
				"medicare wages", "total income",
			},
			ExpectedFields: []string{
				"Employee SSN", "Employer EIN", "Employee Name",
				"Employer Name", "Wages", "Federal Tax Withheld",
				"Social Security Wages", "Medicare Wages",
			},
		},
		{
			SchemaID: "w4",
			Category: "tax",
			RequiredIndicators: []string{
				"w-4", "employee's withholding", "withholding allowance",
			},
			OptionalIndicators: []string{
				"personal allowances", "additional amount to withhold",
				"filing status", "dependents",
			},
			ExpectedFields: []string{
				"Employee Name", "SSN", "Address", "Filing Status",
				"Allowances", "Additional Withholding",
			},
		},
		{
			SchemaID: "1099",
			Category: "tax",
			RequiredIndicators: []string{
				"1099", "nonemployee compensation", "miscellaneous income",
			},
			OptionalIndicators: []string{
				"payer's federal", "rents", "royalties", "other income",
			},
			ExpectedFields: []string{
				"Payer Name", "Payer TIN", "Recipient Name",
				"Recipient TIN", "Nonemployee Compensation",
			},
		},
		{
			SchemaID: "1040",
			Category: "tax",
			RequiredIndicators: []string{
				"1040", "u.s. individual income tax", "tax return",
			},
			OptionalIndicators: []string{
				"adjusted gross income", "taxable income", "filing status",
				"standard deduction",
			},
			ExpectedFields: []string{
				"Taxpayer Name", "SSN", "Filing Status",
				"Adjusted Gross Income", "Taxable Income", "Total Tax",
			},
		},

		// Medical forms
		{
			SchemaID: "insurance_claim",
			Category: "medical",
			RequiredIndicators: []string{
				"insurance claim", "claim form", "cms-1500", "hcfa",
			},
			OptionalIndicators: []string{
				"diagnosis code", "icd", "cpt", "procedure code",
				"date of service", "provider", "policyholder",
				"group number", "member id",
			},
			ExpectedFields: []string{
				"Patient Name", "Date of Birth", "Insurance ID",
				"Group Number", "Provider Name", "Date of Service",
				"Diagnosis Code", "Procedure Code", "Amount Charged",
			},
		},
		{
			SchemaID: "medical_intake",
			Category: "medical",
			RequiredIndicators: []string{
				"patient intake", "medical history", "health history",
			},
			OptionalIndicators: []string{
				"allergies", "medications", "emergency contact",
				"primary care physician", "insurance information",
				"chief complaint", "symptoms", "family history",
			},
			ExpectedFields: []string{
				"Patient Name", "Date of Birth", "Allergies",
				"Medications", "Emergency Contact", "Primary Care Physician",
			},
		},
		{
			SchemaID: "hipaa_authorization",
			Category: "medical",
			RequiredIndicators: []string{
				"hipaa", "protected health information", "release of information",
			},
			OptionalIndicators: []string{
				"authorization", "phi", "health information", "disclose", "privacy",
			},
			ExpectedFields: []string{
				"Patient Name", "Date of Birth", "Authorized Party",
				"Expiration Date", "Signature Date",
			},
		},

		// Employment forms
		{
			SchemaID: "i9",
			Category: "employment",
			RequiredIndicators: []string{
				"i-9", "employment eligibility", "uscis",
			},
			OptionalIndicators: []string{
				"verification", "citizenship status", "work authorization",
				"list a", "list b", "list c",
			},
			ExpectedFields: []string{
				"Employee Name", "Address", "Date of Birth", "SSN",
				"Citizenship Status", "Document Title",
			},
		},
		{
			SchemaID: "job_application",
			Category: "employment",
			RequiredIndicators: []string{
				"employment application", "job application", "position applied",
			},
			OptionalIndicators: []string{
				"applicant", "work experience", "previous employer",
				"references", "education history", "equal opportunity",
				"availability", "desired salary",
			},
			ExpectedFields: []string{
				"Applicant Name", "Address", "Phone", "Email",
				"Position Applied For", "Desired Salary",
				"Work Experience", "Education", "References",
			},
		},
		{
			SchemaID: "onboarding",
			Category: "employment",
			RequiredIndicators: []string{
				"new hire", "onboarding", "benefits enrollment",
			},
			OptionalIndicators: []string{
				"employee information", "start date", "department",
				"manager", "direct deposit", "emergency contact",
			},
			ExpectedFields: []string{
				"Employee Name", "Start Date", "Department", "Manager",
				"Salary", "Emergency Contact",
			},
		},

		// Financial forms
		{
			SchemaID: "loan_application",
			Category: "financial",
			RequiredIndicators: []string{
				"loan application", "credit application", "borrower",
			},
			OptionalIndicators: []string{
				"loan amount", "interest rate", "collateral",
				"monthly payment", "debt-to-income", "credit score",
				"assets", "liabilities", "loan purpose",
			},
			ExpectedFields: []string{
				"Borrower Name", "SSN", "Address", "Employment",
				"Annual Income", "Loan Amount", "Loan Purpose",
				"Assets", "Liabilities",
			},
		},
		{
			SchemaID: "bank_account",
			Category: "financial",
			RequiredIndicators: []string{
				"account opening", "new account", "account application",
			},
			OptionalIndicators: []string{
				"checking", "savings", "routing number", "account number",
				"joint account", "beneficiary", "initial deposit",
			},
			ExpectedFields: []string{
				"Account Holder Name", "SSN", "Address", "Account Type",
				"Initial Deposit", "Beneficiary",
			},
		},

		// Legal forms
		{
			SchemaID: "power_of_attorney",
			Category: "legal",
			RequiredIndicators: []string{
				"power of attorney", "attorney-in-fact",
			},
			OptionalIndicators: []string{
				"principal", "agent", "authority", "durable",
				"revocation", "notarized", "witness",
			},
			ExpectedFields: []string{
				"Principal Name", "Agent Name", "Effective Date",
				"Powers Granted", "Notary Date",
			},
		},
		{
			SchemaID: "contract",
			Category: "legal",
			RequiredIndicators: []string{
				"agreement", "contract", "terms and conditions",
			},
			OptionalIndicators: []string{
				"parties", "whereas", "hereby", "binding", "effective date",
				"termination", "governing law", "jurisdiction",
				"indemnification", "liability",
			},
			ExpectedFields: []string{
				"Party A", "Party B", "Effective Date", "Term",
				"Governing Law", "Signature Date",
			},
		},

		// Government forms
		{
			SchemaID: "dmv",
			Category: "government",
			RequiredIndicators: []string{
				"dmv", "vehicle registration", "department of motor vehicles",
			},
			OptionalIndicators: []string{
				"driver license", "title", "vin", "license plate",
				"odometer", "registration fee",
			},
			ExpectedFields: []string{
				"Owner Name", "Address", "VIN", "License Plate",
				"Vehicle Year", "Registration Fee",
			},
		},
		{
			SchemaID: "passport",
			Category: "government",
			RequiredIndicators: []string{
				"passport", "travel document", "ds-11", "ds-82",
			},
			OptionalIndicators: []string{
				"citizenship", "place of birth", "passport number",
				"nationality", "department of state",
			},
			ExpectedFields: []string{
				"Full Name", "Date of Birth", "Place of Birth",
				"Passport Number", "Nationality",
			},
		},

		// Education forms
		{
			SchemaID: "financial_aid",
			Category: "education",
			RequiredIndicators: []string{
				"fafsa", "financial aid", "student aid",
			},
			OptionalIndicators: []string{
				"grant", "scholarship", "efc", "expected family contribution",
				"award letter", "disbursement",
			},
			ExpectedFields: []string{
				"Student Name", "SSN", "School", "Award Amount",
				"Expected Family Contribution",
			},
		},
		{
			SchemaID: "school_application",
			Category: "education",
			RequiredIndicators: []string{
				"admission", "enrollment", "transcript",
			},
			OptionalIndicators: []string{
				"student", "gpa", "academic", "school",
				"grade level", "program", "degree", "major",
			},
			ExpectedFields: []string{
				"Student Name", "Date of Birth", "Address", "GPA",
				"Program", "Grade Level",
			},
		},
	}
}
