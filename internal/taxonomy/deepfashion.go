package taxonomy

var deepFashion = newDeepFashion()

func newDeepFashion() *Taxonomy {
	t := &Taxonomy{}

	categories := []struct {
		name  string
		group Group
	}{
		{"Anorak", GroupTop}, {"Blazer", GroupTop}, {"Blouse", GroupTop}, {"Bomber", GroupTop},
		{"Button Down", GroupTop}, {"Cardigan", GroupTop}, {"Flannel", GroupTop}, {"Halter", GroupTop},
		{"Henley", GroupTop}, {"Hoodie", GroupTop}, {"Jacket", GroupTop}, {"Jersey", GroupTop},
		{"Parka", GroupTop}, {"Peacoat", GroupTop}, {"Poncho", GroupTop}, {"Sweater", GroupTop},
		{"Tank", GroupTop}, {"Tee", GroupTop}, {"Top", GroupTop}, {"Turtleneck", GroupTop},

		{"Capris", GroupBottom}, {"Chinos", GroupBottom}, {"Culottes", GroupBottom}, {"Cutoffs", GroupBottom},
		{"Gauchos", GroupBottom}, {"Jeans", GroupBottom}, {"Jeggings", GroupBottom}, {"Jodhpurs", GroupBottom},
		{"Joggers", GroupBottom}, {"Leggings", GroupBottom}, {"Sarong", GroupBottom}, {"Shorts", GroupBottom},
		{"Skirt", GroupBottom}, {"Sweatpants", GroupBottom}, {"Sweatshorts", GroupBottom}, {"Trunks", GroupBottom},

		{"Caftan", GroupFullBody}, {"Cape", GroupFullBody}, {"Coat", GroupFullBody}, {"Coverup", GroupFullBody},
		{"Dress", GroupFullBody}, {"Jumpsuit", GroupFullBody}, {"Kaftan", GroupFullBody}, {"Kimono", GroupFullBody},
		{"Nightdress", GroupFullBody}, {"Onesie", GroupFullBody}, {"Robe", GroupFullBody}, {"Romper", GroupFullBody},
		{"Shirtdress", GroupFullBody}, {"Sundress", GroupFullBody},
	}
	for i, c := range categories {
		t.categories[i] = CategoryEntry{Index: i + 1, Name: c.name, Group: c.group}
	}

	var all []Group
	topFull := []Group{GroupTop, GroupFullBody}
	topOnly := []Group{GroupTop}
	fullOnly := []Group{GroupFullBody}

	attributes := []struct {
		name   string
		groups []Group
	}{
		{"floral", all}, {"graphic", all}, {"striped", all}, {"embroidered", all},
		{"pleated", all}, {"solid", all}, {"lattice", all},
		{"long sleeve", topFull}, {"short sleeve", topOnly}, {"sleeveless", topFull},
		{"maxi length", fullOnly}, {"mini length", fullOnly},
		// no descriptive label in the dataset
		{"", all},
		{"crew neckline", topFull}, {"v neckline", topFull},
		{"square neckline", topOnly}, {"no neckline", topOnly},
		{"denim", all}, {"chiffon", all}, {"cotton", all}, {"leather", all},
		{"faux", all}, {"knit", all}, {"tight", all}, {"loose", all}, {"classic", all},
	}
	for i, a := range attributes {
		t.attributes[i] = AttributeEntry{Index: i + 1, Name: a.name, ApplicableGroups: a.groups}
	}

	return t
}
