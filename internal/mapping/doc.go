// Package mapping provides the mapping document schema, parsing, and
// structural validation for entity-graph transformations.
//
// A mapping document declares, per source entity context, which target
// context it becomes, how its attributes are carried over, and which
// relationships are followed.
//
// # Schema Overview
//
//	mapping_id: "DMP_to_CAO_Mapping_v0.1"
//	source_model: "ResearchDataManagementPlan_LogicalModel"
//	target_model: "ResearchDataManagement_LogicalModel"
//	relationship_contexts:
//	  has_datasets: "http://schema.org/Dataset"
//	entity_mappings:
//	  - source_selector:
//	      context: "http://schema.org/Dataset"
//	    target_selector:
//	      context: "http://schema.org/Dataset"
//	    attribute_mappings:
//	      - source_attribute: "title"
//	        target_attribute: "data_name"
//	      - source_attribute: "access_policy"
//	        target_path: "has_access_right.access_type"
//	        rule: "map_values"
//	        value_map:
//	          "非共有・非公開": "非公開"
//	    relationship_mappings:
//	      - source_relationship: "collected_by"
//	        target_relationship: "created_datasets"
//	        direction: "inverse"
//	        target_context: "http://schema.org/Person"
//
// # Attribute Rules
//
//   - direct_copy (default): copy the source value
//   - ignore: never write anything
//   - static_value: write static_value when the source attribute is present
//   - map_values: substitute through value_map, unmatched values pass through
//
// Every rule except ignore needs exactly one target locator: target_attribute
// (a flat key) or target_path (a dotted path whose intermediate containers are
// created on demand).
//
// # Relationship Directions
//
//   - forward (default): children are produced, no link is injected
//   - inverse: each produced child receives its produced parent under
//     target_relationship
package mapping
