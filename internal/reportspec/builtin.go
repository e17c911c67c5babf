package reportspec

// Column groups shared across the built-in specs. Formats always take copies
// through Columns(), never the group slices themselves.
var (
	commonColumns = []Column{
		{Name: "Display Name", Key: "display_name"},
		{Name: "Qualified Name", Key: "qualified_name", RequiresFormatting: true},
		{Name: "Category", Key: "category"},
		{Name: "Description", Key: "description", RequiresFormatting: true},
	}

	headerColumns = []Column{
		{Name: "GUID", Key: "guid"},
		{Name: "Type Name", Key: "type_name"},
		{Name: "Metadata Collection ID", Key: "metadata_collection_id"},
		{Name: "Metadata Collection Name", Key: "metadata_collection_name"},
	}

	auditColumns = []Column{
		{Name: "Created By", Key: "created_by"},
		{Name: "Create Time", Key: "create_time"},
		{Name: "Updated By", Key: "updated_by"},
		{Name: "Update Time", Key: "update_time"},
	}

	collectionColumns = []Column{
		{Name: "Collection Type", Key: "collection_type"},
		{Name: "Members", Key: "members", RequiresFormatting: true},
		{Name: "Member Of", Key: "member_of_collections", RequiresFormatting: true},
	}

	productColumns = []Column{
		{Name: "Product Name", Key: "product_name"},
		{Name: "Identifier", Key: "identifier"},
		{Name: "Maturity", Key: "maturity"},
		{Name: "Product Status", Key: "product_status"},
		{Name: "Introduction Date", Key: "introduction_date"},
	}

	glossaryColumns = []Column{
		{Name: "Language", Key: "language"},
		{Name: "Usage", Key: "usage", RequiresFormatting: true},
		{Name: "Categories", Key: "categories"},
	}

	termColumns = []Column{
		{Name: "Summary", Key: "summary", RequiresFormatting: true},
		{Name: "Examples", Key: "examples", RequiresFormatting: true},
		{Name: "Abbreviation", Key: "abbreviation"},
		{Name: "Glossary", Key: "glossary"},
		{Name: "Status", Key: "status"},
	}

	projectColumns = []Column{
		{Name: "Project Status", Key: "project_status"},
		{Name: "Start Date", Key: "start_date"},
		{Name: "Planned End Date", Key: "planned_end_date"},
		{Name: "Project Health", Key: "project_health"},
	}

	referenceColumns = []Column{
		{Name: "URL", Key: "url"},
		{Name: "Reference Title", Key: "reference_title"},
		{Name: "Reference Abstract", Key: "reference_abstract", RequiresFormatting: true},
		{Name: "Authors", Key: "authors"},
	}

	mermaidColumns = []Column{
		{Name: "Mermaid", Key: "mermaid"},
	}
)

func searchAction(function string, fixed map[string]any) *ActionParameter {
	return &ActionParameter{
		Function:       function,
		RequiredParams: []string{"search_string"},
		OptionalParams: []string{"page_size", "start_from", "starts_with", "ends_with", "ignore_case"},
		SpecParams:     fixed,
	}
}

func propsAction(function string) *ActionParameter {
	return &ActionParameter{
		Function:       function,
		RequiredParams: []string{"guid"},
		OptionalParams: []string{"output_format"},
	}
}

// BuiltinFormatSets returns the base report specs every catalog starts from.
func BuiltinFormatSets() []FormatSet {
	return []FormatSet{
		{
			Name:        DefaultSpecName,
			Heading:     "Default Base Attributes",
			Description: "Default base attributes for any referenceable element.",
			Annotations: map[string][]string{"wikilinks": {"[[Referenceable]]"}},
			Formats: []Format{
				{Types: []string{TypeAll}, Columns: Columns(commonColumns)},
			},
		},
		{
			Name:        "Referenceable",
			Heading:     "Common Attributes",
			Description: "Identity, header and audit attributes of any referenceable element.",
			Aliases:     []string{"Common", "Element"},
			Formats: []Format{
				{Types: []string{TypeTable, TypeList}, Columns: Columns(commonColumns, headerColumns[:2])},
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, headerColumns, auditColumns)},
			},
			Action: searchAction("ClassificationManager.find_elements_by_property_value", map[string]any{
				"property_names": []any{"displayName", "qualifiedName"},
			}),
		},
		{
			Name:        "Collections",
			Heading:     "Common Collection Information",
			Description: "Information relevant to a collection.",
			Aliases:     []string{"Collection", "Folder", "Root Collections"},
			Annotations: map[string][]string{"wikilinks": {"[[Collections]]", "[[Folders]]"}},
			TargetType:  StringPtr("Collection"),
			Formats: []Format{
				{Types: []string{TypeTable, TypeList}, Columns: Columns(commonColumns[:2], collectionColumns[:1])},
				{Types: []string{TypeDict, TypeReport, TypeForm, TypeMD}, Columns: Columns(commonColumns, collectionColumns, headerColumns[:1])},
				{Types: []string{TypeMermaid}, Columns: Columns(commonColumns[:1], mermaidColumns)},
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, headerColumns[:1])},
			},
			Action:             searchAction("CollectionManager.find_collections", map[string]any{"classification_names": []any{}}),
			GetAdditionalProps: propsAction("CollectionManager.get_collection_by_guid"),
		},
		{
			Name:        "Digital-Products",
			Heading:     "Digital Product Information",
			Description: "Attributes useful to digital products.",
			Aliases:     []string{"Digital Product", "Digital Products", "DigitalProducts"},
			TargetType:  StringPtr("DigitalProduct"),
			Formats: []Format{
				{Types: []string{TypeTable, TypeList}, Columns: Columns(commonColumns[:1], productColumns[:2], productColumns[3:4])},
				{Types: []string{TypeDict, TypeReport, TypeForm, TypeMD, TypeHTML}, Columns: Columns(commonColumns, productColumns, collectionColumns[1:2])},
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, productColumns)},
			},
			Action: searchAction("CollectionManager.find_collections", map[string]any{
				"classification_names": []any{"DigitalProduct"},
			}),
		},
		{
			Name:        "Glossaries",
			Heading:     "Glossary Information",
			Description: "Attributes generic to all glossaries.",
			Aliases:     []string{"Glossary"},
			TargetType:  StringPtr("Glossary"),
			Formats: []Format{
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, glossaryColumns)},
			},
			Action: searchAction("GlossaryManager.find_glossaries", nil),
		},
		{
			Name:        "Glossary-Terms",
			Heading:     "Glossary Term Information",
			Description: "Attributes useful to glossary terms.",
			Aliases:     []string{"Term", "Terms", "Glossary Term", "Glossary Terms"},
			TargetType:  StringPtr("GlossaryTerm"),
			Formats: []Format{
				{Types: []string{TypeTable, TypeList}, Columns: Columns(commonColumns[:1], termColumns[:1], termColumns[3:])},
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, termColumns, headerColumns[:1])},
			},
			Action:             searchAction("GlossaryManager.find_glossary_terms", nil),
			GetAdditionalProps: propsAction("GlossaryManager.get_term_by_guid"),
		},
		{
			Name:        "Projects",
			Heading:     "Project Information",
			Description: "Attributes useful to projects.",
			Aliases:     []string{"Project", "Campaigns", "Tasks"},
			TargetType:  StringPtr("Project"),
			Formats: []Format{
				{Types: []string{TypeTable, TypeList}, Columns: Columns(commonColumns[:1], projectColumns[:2])},
				{Types: []string{TypeAll}, Columns: Columns(commonColumns, projectColumns, headerColumns[:1])},
			},
			Action: searchAction("ProjectManager.find_projects", nil),
		},
		{
			Name:        "External-References",
			Heading:     "External Reference Information",
			Description: "Links to material held outside the open metadata ecosystem.",
			Aliases:     []string{"External Reference", "External References"},
			TargetType:  StringPtr("ExternalReference"),
			Formats: []Format{
				{Types: []string{TypeAll}, Columns: Columns(commonColumns[:2], referenceColumns)},
			},
			Action: searchAction("ExternalReferences.find_external_references", nil),
		},
		{
			Name:        "Mermaid-Graph",
			Heading:     "Element Graph",
			Description: "Mermaid graph of an element and its relationships.",
			Aliases:     []string{"Mermaid", "Graph"},
			Formats: []Format{
				{Types: []string{TypeMermaid, TypeMD, TypeReport}, Columns: Columns(commonColumns[:1], mermaidColumns)},
			},
			Action: &ActionParameter{
				Function:       "ClassificationManager.get_element_graph",
				RequiredParams: []string{"guid"},
				OptionalParams: []string{"mermaid_only"},
			},
		},
	}
}

// NewBuiltinRegistry returns a registry holding the built-in specs.
func NewBuiltinRegistry() *Registry {
	reg := NewRegistry()
	for _, fs := range BuiltinFormatSets() {
		if err := reg.Register(fs); err != nil {
			// Built-in specs are fixed at compile time; a conflict here is a programming error.
			panic(err)
		}
	}
	return reg
}
