package synth

import "github.com/warp/factory-trace/model"

// Fixed demo catalog. Supplier quality ratings are deliberately spread
// (78 to 95) so scorecards and lot-status weighting have contrast, and
// SUP-005 sits OnHold to exercise status filters.

func catalogSuppliers() []model.Supplier {
	return []model.Supplier{
		{
			ID:                "SUP-001",
			Name:              "SteelCorp International",
			Type:              "Raw Materials",
			MaterialsSupplied: []model.MaterialID{"MAT-001", "MAT-002"},
			Contact: map[string]string{
				"email":   "orders@steelcorp.com",
				"phone":   "+1-555-0101",
				"address": "123 Industrial Way, Pittsburgh, PA",
			},
			QualityMetrics: model.QualityMetrics{
				QualityRating:      92.5,
				OnTimeDeliveryRate: 95.0,
				DefectRate:         1.2,
			},
			Certifications: []string{"ISO9001", "AS9100"},
			Status:         model.SupplierActive,
		},
		{
			ID:                "SUP-002",
			Name:              "PrecisionFast LLC",
			Type:              "Fasteners",
			MaterialsSupplied: []model.MaterialID{"MAT-005", "MAT-006"},
			Contact: map[string]string{
				"email":   "sales@precisionfast.com",
				"phone":   "+1-555-0202",
				"address": "456 Bolt Street, Cleveland, OH",
			},
			QualityMetrics: model.QualityMetrics{
				QualityRating:      88.0,
				OnTimeDeliveryRate: 90.0,
				DefectRate:         2.5,
			},
			Certifications: []string{"ISO9001"},
			Status:         model.SupplierActive,
		},
		{
			ID:                "SUP-003",
			Name:              "AluminumWorks Co",
			Type:              "Raw Materials",
			MaterialsSupplied: []model.MaterialID{"MAT-003"},
			Contact: map[string]string{
				"email":   "info@aluminumworks.com",
				"phone":   "+1-555-0303",
				"address": "789 Metal Drive, Detroit, MI",
			},
			QualityMetrics: model.QualityMetrics{
				QualityRating:      95.0,
				OnTimeDeliveryRate: 97.0,
				DefectRate:         0.8,
			},
			Certifications: []string{"ISO9001", "ISO14001"},
			Status:         model.SupplierActive,
		},
		{
			ID:                "SUP-004",
			Name:              "ComponentTech Industries",
			Type:              "Components",
			MaterialsSupplied: []model.MaterialID{"MAT-007", "MAT-008"},
			Contact: map[string]string{
				"email":   "orders@componenttech.com",
				"phone":   "+1-555-0404",
				"address": "321 Circuit Lane, San Jose, CA",
			},
			QualityMetrics: model.QualityMetrics{
				QualityRating:      85.0,
				OnTimeDeliveryRate: 88.0,
				DefectRate:         3.2,
			},
			Certifications: []string{"ISO9001"},
			Status:         model.SupplierActive,
		},
		{
			ID:                "SUP-005",
			Name:              "EcoMaterials Group",
			Type:              "Raw Materials",
			MaterialsSupplied: []model.MaterialID{"MAT-004"},
			Contact: map[string]string{
				"email":   "contact@ecomaterials.com",
				"phone":   "+1-555-0505",
				"address": "654 Green Ave, Portland, OR",
			},
			QualityMetrics: model.QualityMetrics{
				QualityRating:      78.0,
				OnTimeDeliveryRate: 82.0,
				DefectRate:         4.5,
			},
			Certifications: []string{"ISO14001"},
			Status:         model.SupplierOnHold,
		},
	}
}

func catalogMaterials() []model.MaterialSpec {
	return []model.MaterialSpec{
		{
			ID:                 "MAT-001",
			Name:               "Steel Bar 304 Stainless",
			Category:           "Steel",
			Specification:      "ASTM A479 Grade 304",
			Unit:               "kg",
			PreferredSuppliers: []model.SupplierID{"SUP-001"},
			QualityRequirements: map[string]string{
				"hardness":         "HRC 20-25",
				"tensile_strength": ">=515 MPa",
				"inspection":       "Visual + Hardness test",
			},
		},
		{
			ID:                 "MAT-002",
			Name:               "Steel Bar 4140 Alloy",
			Category:           "Steel",
			Specification:      "ASTM A29 Grade 4140",
			Unit:               "kg",
			PreferredSuppliers: []model.SupplierID{"SUP-001"},
			QualityRequirements: map[string]string{
				"hardness":         "HRC 28-32",
				"tensile_strength": ">=655 MPa",
				"inspection":       "Visual + Hardness + Ultrasonic",
			},
		},
		{
			ID:                 "MAT-003",
			Name:               "Aluminum Bar 6061-T6",
			Category:           "Aluminum",
			Specification:      "ASTM B221 Grade 6061-T6",
			Unit:               "kg",
			PreferredSuppliers: []model.SupplierID{"SUP-003"},
			QualityRequirements: map[string]string{
				"hardness":         "HB 95",
				"tensile_strength": ">=310 MPa",
				"inspection":       "Visual + Dimensional",
			},
		},
		{
			ID:                 "MAT-004",
			Name:               "Steel Plate A36",
			Category:           "Steel",
			Specification:      "ASTM A36 Carbon Steel",
			Unit:               "kg",
			PreferredSuppliers: []model.SupplierID{"SUP-005"},
			QualityRequirements: map[string]string{
				"tensile_strength": ">=400 MPa",
				"yield_strength":   ">=250 MPa",
				"inspection":       "Visual + Tensile test",
			},
		},
		{
			ID:                 "MAT-005",
			Name:               "M8x1.25 Hex Bolt Grade 8.8",
			Category:           "Fasteners",
			Specification:      "ISO 4017 Grade 8.8",
			Unit:               "pieces",
			PreferredSuppliers: []model.SupplierID{"SUP-002"},
			QualityRequirements: map[string]string{
				"hardness":   "HRC 22-32",
				"torque":     "25 Nm +/-2",
				"inspection": "Visual + Dimensional + Sample torque test",
			},
		},
		{
			ID:                 "MAT-006",
			Name:               "M10x1.5 Socket Cap Screw",
			Category:           "Fasteners",
			Specification:      "ISO 4762 Grade 12.9",
			Unit:               "pieces",
			PreferredSuppliers: []model.SupplierID{"SUP-002"},
			QualityRequirements: map[string]string{
				"hardness":   "HRC 39-44",
				"torque":     "50 Nm +/-3",
				"inspection": "Visual + Dimensional + Sample torque test",
			},
		},
		{
			ID:                 "MAT-007",
			Name:               "Electronic Control Module ECM-2000",
			Category:           "Components",
			Specification:      "Custom OEM Part #ECM2000",
			Unit:               "pieces",
			PreferredSuppliers: []model.SupplierID{"SUP-004"},
			QualityRequirements: map[string]string{
				"functional_test": "100% tested",
				"visual":          "No cosmetic defects",
				"inspection":      "Functional + Visual",
			},
		},
		{
			ID:                 "MAT-008",
			Name:               "Hydraulic Pump Assembly HP-150",
			Category:           "Components",
			Specification:      "Custom OEM Part #HP150",
			Unit:               "pieces",
			PreferredSuppliers: []model.SupplierID{"SUP-004"},
			QualityRequirements: map[string]string{
				"pressure_test": "150 bar minimum",
				"leak_test":     "Zero leakage at 200 bar",
				"inspection":    "Pressure + Leak + Visual",
			},
		},
	}
}

// customers and partNumbers feed order generation.
var customers = []string{
	"Acme Manufacturing",
	"TechParts Inc",
	"Industrial Solutions Ltd",
	"Global Assembly Corp",
	"Precision Industries",
	"AutoComponents Co",
	"MegaProd Systems",
}

var partNumbers = []string{
	"PART-A100",
	"PART-B200",
	"PART-C300",
	"PART-D400",
	"PART-E500",
}

var operators = []string{
	"John Smith",
	"Sarah Johnson",
	"Mike Chen",
	"Emily Davis",
	"Carlos Rodriguez",
	"Lisa Anderson",
}
