package portal

import (
	"encoding/json"
	"testing"
)

func TestFieldDistinguishesAbsentNullValue(t *testing.T) {
	var p DepartmentPatch
	if err := json.Unmarshal([]byte(`{"name":"Sales","manager_id":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Name.IsSet() || p.Name.Value != "Sales" {
		t.Fatalf("name = %+v, want present value", p.Name)
	}
	if !p.ManagerID.Present || !p.ManagerID.Null {
		t.Fatalf("manager_id = %+v, want explicit null", p.ManagerID)
	}
	if p.Description.Present {
		t.Fatalf("description should be absent, got %+v", p.Description)
	}
	if !p.HasFields() {
		t.Fatal("HasFields() = false for a non-empty patch")
	}
}

func TestEmptyBodyHasNoFields(t *testing.T) {
	var p EmployeePatch
	if err := json.Unmarshal([]byte(`{}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.HasFields() {
		t.Fatal("HasFields() = true for {}")
	}
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p TransactionPatch
	if err := json.Unmarshal([]byte(`{"amount_cents":"lots"}`), &p); err == nil {
		t.Fatal("expected type error for string amount")
	}
}
