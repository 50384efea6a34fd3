package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type templateDef struct {
	name          string
	description   string
	category      string
	unit          string
	basePrice     float64
	laborHours    float64
	materialCost  float64
	markupPercent float64
}

type workOrderDef struct {
	title       string
	description string
	status      string
}

// Seed populates the store with a demo contractor, client, work orders and
// a starter template catalog. It is safe to call on every startup because
// it returns early if any contractor records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if a contractor already exists ─────────────
	contractorsCol, err := app.FindCollectionByNameOrId("contractors")
	if err != nil {
		return fmt.Errorf("seed: could not find contractors collection: %w", err)
	}
	existing, err := app.FindAllRecords(contractorsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query contractors: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	workOrdersCol, err := app.FindCollectionByNameOrId("work_orders")
	if err != nil {
		return fmt.Errorf("seed: could not find work_orders collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("line_item_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find line_item_templates collection: %w", err)
	}

	// ── demo contractor ──────────────────────────────────────────────
	contractor := core.NewRecord(contractorsCol)
	contractor.Set("name", "Ridgeline Contracting LLC")
	contractor.Set("reference_code", "RDG")
	contractor.Set("email", "office@ridgelinecontracting.example")
	contractor.Set("phone", "5035550182")
	contractor.Set("global_labor_rate", 65.0)
	contractor.Set("category_rates", map[string]float64{
		"plumbing":   95,
		"electrical": 90,
		"hvac":       85,
	})
	if err := app.Save(contractor); err != nil {
		return fmt.Errorf("seed: could not create contractor: %w", err)
	}

	// ── demo client ──────────────────────────────────────────────────
	client := core.NewRecord(clientsCol)
	client.Set("name", "Harbor View Property Group")
	client.Set("email", "maintenance@harborviewpg.example")
	client.Set("phone", "5035550147")
	if err := app.Save(client); err != nil {
		return fmt.Errorf("seed: could not create client: %w", err)
	}

	// ── demo work orders ─────────────────────────────────────────────
	workOrders := []workOrderDef{
		{
			title:       "Unit 4B kitchen renovation",
			description: "Replace sink, garbage disposal and under-cabinet lighting; refinish cabinet faces.",
			status:      "open",
		},
		{
			title:       "Building C roof repair",
			description: "Patch flashing around both chimneys and replace damaged shingles on the south slope.",
			status:      "open",
		},
	}
	for _, def := range workOrders {
		rec := core.NewRecord(workOrdersCol)
		rec.Set("client", client.Id)
		rec.Set("title", def.title)
		rec.Set("description", def.description)
		rec.Set("status", def.status)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not create work order %q: %w", def.title, err)
		}
	}

	// ── starter template catalog ─────────────────────────────────────
	templates := []templateDef{
		{
			name:          "Install kitchen sink",
			description:   "Standard drop-in sink install including supply lines and trap",
			category:      "plumbing",
			unit:          "each",
			basePrice:     0,
			laborHours:    3,
			materialCost:  180,
			markupPercent: 20,
		},
		{
			name:          "Replace garbage disposal",
			description:   "Remove old unit, install 1/2 HP disposal",
			category:      "plumbing",
			unit:          "each",
			basePrice:     0,
			laborHours:    1.5,
			materialCost:  140,
			markupPercent: 20,
		},
		{
			name:          "Install GFCI outlet",
			description:   "Swap standard receptacle for GFCI, test and label",
			category:      "electrical",
			unit:          "each",
			basePrice:     0,
			laborHours:    0.75,
			materialCost:  25,
			markupPercent: 25,
		},
		{
			name:          "Under-cabinet LED lighting",
			description:   "Hardwired LED strip per linear run, dimmer included",
			category:      "electrical",
			unit:          "ft",
			basePrice:     0,
			laborHours:    0.25,
			materialCost:  12,
			markupPercent: 25,
		},
		{
			name:          "Install laminate flooring",
			description:   "Click-lock laminate over existing subfloor, underlayment included",
			category:      "flooring",
			unit:          "sqft",
			basePrice:     0,
			laborHours:    0.05,
			materialCost:  3.5,
			markupPercent: 15,
		},
		{
			name:          "Asphalt shingle replacement",
			description:   "Tear off and replace architectural shingles, per square",
			category:      "roofing",
			unit:          "square",
			basePrice:     0,
			laborHours:    4,
			materialCost:  260,
			markupPercent: 18,
		},
		{
			name:          "HVAC filter service",
			description:   "Replace filters and inspect blower assembly",
			category:      "hvac",
			unit:          "each",
			basePrice:     0,
			laborHours:    0.5,
			materialCost:  35,
			markupPercent: 15,
		},
		{
			name:          "Haul and dispose debris",
			description:   "Job-site debris removal, per truckload",
			category:      "general",
			unit:          "load",
			basePrice:     150,
			laborHours:    0,
			materialCost:  0,
			markupPercent: 10,
		},
	}
	for _, def := range templates {
		rec := core.NewRecord(templatesCol)
		rec.Set("contractor", contractor.Id)
		rec.Set("name", def.name)
		rec.Set("description", def.description)
		rec.Set("category", def.category)
		rec.Set("unit", def.unit)
		rec.Set("base_price", def.basePrice)
		rec.Set("labor_hours", def.laborHours)
		rec.Set("material_cost", def.materialCost)
		rec.Set("markup_percent", def.markupPercent)
		rec.Set("active", true)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not create template %q: %w", def.name, err)
		}
	}

	fmt.Printf("Seeded contractor %q with %d catalog templates and %d work orders\n",
		contractor.GetString("name"), len(templates), len(workOrders))
	return nil
}
