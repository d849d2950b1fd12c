package payroll

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBulkEmployees reads "name,position,base,bonus,overtime,deductions"
// lines. Blank lines are skipped and missing amount columns count as zero.
func ParseBulkEmployees(text string) ([]EmployeePay, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var employees []EmployeePay
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		line, _ := reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}
		if len(record) > 6 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want at most 6", ErrInvalidInput, line, len(record))
		}

		fields := make([]string, 6)
		for i, value := range record {
			fields[i] = strings.TrimSpace(value)
		}
		employee := EmployeePay{Name: fields[0], Position: fields[1]}
		amounts := []*decimal.Decimal{&employee.BaseSalary, &employee.Bonus, &employee.Overtime, &employee.Deductions}
		for i, dst := range amounts {
			raw := fields[i+2]
			if raw == "" {
				*dst = decimal.Zero
				continue
			}
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d is not a number", ErrInvalidInput, line, i+3)
			}
			*dst = parsed
		}
		if err := employee.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		employees = append(employees, employee)
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("%w: no employee lines found", ErrInvalidInput)
	}
	return employees, nil
}

func isBlankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
