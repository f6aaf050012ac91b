package memory

import "github.com/UTarts/cardiff-healthcare/internal/domain"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&q=80&w=800"
}

// SeedProducts returns the sample catalog shipped with the storefront.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Name: "Cardimol-650", Category: "Tablet",
			Composition: "Paracetamol 650mg",
			Uses:        "Fever, Mild Pain, Headache",
			PackSize:    "10x15 Blister",
			Description: "Cardimol-650 provides effective relief from fever and mild to moderate pain. It is the most trusted antipyretic for all age groups.",
			Images:      []string{unsplash("photo-1584308666744-24d5c474f2ae")},
			IsTopSeller: true,
		},
		{
			ID: 2, Name: "Cardicef-200", Category: "Tablet",
			Composition: "Cefixime 200mg",
			Uses:        "Bacterial Infections, Respiratory Tract Infection",
			PackSize:    "10x10 Alu-Alu",
			Description: "A third-generation cephalosporin antibiotic used to treat a wide variety of bacterial infections including ear, nose, and throat infections.",
			Images:      []string{unsplash("photo-1471864190281-a93a3070b6de")},
		},
		{
			ID: 3, Name: "Cardivit Gold", Category: "Syrup",
			Composition: "Multivitamins + Multiminerals + Antioxidants",
			Uses:        "Weakness, Immunity Booster, General Health",
			PackSize:    "200ml Bottle",
			Description: "A premium nutritional supplement designed to boost immunity, improve appetite, and combat daily fatigue and stress.",
			Images:      []string{unsplash("photo-1633122088522-396713c99ce0")},
			IsTopSeller: true,
		},
		{
			ID: 4, Name: "Cardipan-D", Category: "Capsule",
			Composition: "Pantoprazole 40mg + Domperidone 30mg",
			Uses:        "Acidity, GERD, Heartburn",
			PackSize:    "10x10 Strip",
			Description: "Provides rapid relief from acidity and gas. The sustained release formula ensures 24-hour protection against heartburn.",
			Images:      []string{unsplash("photo-1550572017-edd951aa8f72")},
		},
		{
			ID: 5, Name: "Cardiflam Plus", Category: "Tablet",
			Composition: "Aceclofenac 100mg + Paracetamol 325mg",
			Uses:        "Joint Pain, Muscle Pain, Arthritis",
			PackSize:    "10x10 Blister",
			Description: "A powerful combination for pain relief and inflammation reduction. Ideal for arthritis, muscle pain, and post-operative pain.",
			Images:      []string{unsplash("photo-1628771065518-0d82f1938462")},
			IsTopSeller: true,
		},
		{
			ID: 6, Name: "Cardicough-DX", Category: "Syrup",
			Composition: "Dextromethorphan + Chlorpheniramine",
			Uses:        "Dry Cough, Throat Irritation",
			PackSize:    "100ml Bottle",
			Description: "Effective relief from dry, nagging coughs. Soothes the throat and reduces allergic symptoms associated with colds.",
			Images:      []string{unsplash("photo-1609155704727-9f7c02376c12")},
		},
		{
			ID: 7, Name: "Cardizone-S", Category: "Injection",
			Composition: "Ceftriaxone 1000mg + Sulbactam 500mg",
			Uses:        "Severe Bacterial Infections",
			PackSize:    "1 Vial + WFI",
			Description: "A high-potency antibiotic injection for treating severe hospital-acquired infections and resistant bacterial strains.",
			Images:      []string{unsplash("photo-1579165466741-7f35e4755652")},
		},
		{
			ID: 8, Name: "Cardical-500", Category: "Tablet",
			Composition: "Calcium 500mg + Vitamin D3",
			Uses:        "Bone Health, Osteoporosis",
			PackSize:    "15 Tablets Bottle",
			Description: "Essential for strong bones and teeth. Vitamin D3 ensures maximum absorption of Calcium in the body.",
			Images:      []string{unsplash("photo-1584017911766-d451b3d0e843")},
		},
		{
			ID: 9, Name: "Cardiderm Cream", Category: "Ointment",
			Composition: "Clobetasol + Neomycin + Miconazole",
			Uses:        "Skin Infections, Eczema, Fungal Infection",
			PackSize:    "15g Tube",
			Description: "Triple action cream for treating complicated skin infections involving bacteria and fungi. Reduces redness and itching quickly.",
			Images:      []string{unsplash("photo-1556228720-19de75274098")},
		},
		{
			ID: 10, Name: "Cardilife Protein", Category: "Powder",
			Composition: "Protein Hydrolysate + DHA + Minerals",
			Uses:        "Growth, Recovery, General Weakness",
			PackSize:    "200g Tin",
			Description: "A complete health drink for the whole family. Enriched with DHA for brain health and high-quality protein for muscle repair.",
			Images:      []string{unsplash("photo-1593095948071-474c5cc2989d")},
		},
	}
}
