package taskwarrior

import (
	"sort"
	"strings"
)

// Names of the fixed record fields in the store's flat field mapping.
const (
	fieldUUID        = "uuid"
	fieldStatus      = "status"
	fieldDescription = "description"
	fieldProject     = "project"
	fieldDue         = "due"
	fieldEnd         = "end"

	annotationPrefix = "annotation_"
)

// DefaultNamespace prefixes the adapter-owned extension fields written into
// local records. Records written under this namespace stay wire-compatible
// with the original sync tooling.
const DefaultNamespace = "twgs"

// Keys names the adapter-owned extension fields for one namespace. A zero
// Keys value uses [DefaultNamespace].
type Keys struct {
	Namespace string
}

func (k Keys) namespace() string {
	if k.Namespace == "" {
		return DefaultNamespace
	}
	return k.Namespace
}

// AssociationPrefix returns the common prefix of all association keys.
func (k Keys) AssociationPrefix() string {
	return k.namespace() + "_assoc"
}

// AssociationKey returns the record key holding the association for the named
// provider.
func (k Keys) AssociationKey(provider string) string {
	return k.AssociationPrefix() + "_" + provider
}

// EtagKey returns the record key holding the last-synced upstream etag.
func (k Keys) EtagKey() string {
	return k.namespace() + "_etag"
}

// Record is one local task in a typed layout. Store clients translate between
// Record and the store's flat field mapping via [Record.Flatten] and
// [ParseRecord].
//
// Dates stay in the store's encoding: epoch seconds as strings, "" when
// unset. Associations are indexed by provider name, which enforces at most
// one association per provider. A nil Etag means the record has never been
// associated with any upstream task.
type Record struct {
	UUID        string
	Status      string
	Description string
	Project     string
	Due         string
	End         string

	Annotations  map[string]string
	Associations map[string]string
	Etag         *string

	// Extra preserves store-internal fields (entry, modified, ...) verbatim
	// so a round trip through the adapter never drops them.
	Extra map[string]string
}

// Clone returns a deep copy sharing no storage with the receiver.
func (r Record) Clone() Record {
	out := r
	out.Annotations = cloneMap(r.Annotations)
	out.Associations = cloneMap(r.Associations)
	out.Extra = cloneMap(r.Extra)
	if r.Etag != nil {
		etag := *r.Etag
		out.Etag = &etag
	}
	return out
}

// Flatten renders the record into the store's flat field mapping, writing the
// adapter-owned extension fields under keys.
func (r Record) Flatten(keys Keys) map[string]string {
	fields := make(map[string]string, 6+len(r.Annotations)+len(r.Associations)+len(r.Extra))

	setIfPresent(fields, fieldUUID, r.UUID)
	setIfPresent(fields, fieldStatus, r.Status)
	setIfPresent(fields, fieldDescription, r.Description)
	setIfPresent(fields, fieldProject, r.Project)
	setIfPresent(fields, fieldDue, r.Due)
	setIfPresent(fields, fieldEnd, r.End)

	for key, value := range r.Annotations {
		fields[key] = value
	}
	for provider, uid := range r.Associations {
		fields[keys.AssociationKey(provider)] = uid
	}
	if r.Etag != nil {
		fields[keys.EtagKey()] = *r.Etag
	}
	for key, value := range r.Extra {
		fields[key] = value
	}

	return fields
}

// ParseRecord builds a Record from the store's flat field mapping, picking
// the adapter-owned extension fields out by keys. The input mapping is not
// retained.
func ParseRecord(fields map[string]string, keys Keys) Record {
	rec := Record{}
	assocPrefix := keys.AssociationPrefix() + "_"

	for key, value := range fields {
		switch key {
		case fieldUUID:
			rec.UUID = value
		case fieldStatus:
			rec.Status = value
		case fieldDescription:
			rec.Description = value
		case fieldProject:
			rec.Project = value
		case fieldDue:
			rec.Due = value
		case fieldEnd:
			rec.End = value
		case keys.EtagKey():
			etag := value
			rec.Etag = &etag
		default:
			switch {
			case strings.HasPrefix(key, annotationPrefix):
				if rec.Annotations == nil {
					rec.Annotations = make(map[string]string)
				}
				rec.Annotations[key] = value
			case strings.HasPrefix(key, assocPrefix):
				if rec.Associations == nil {
					rec.Associations = make(map[string]string)
				}
				rec.Associations[strings.TrimPrefix(key, assocPrefix)] = value
			default:
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[key] = value
			}
		}
	}

	return rec
}

// providers returns the record's associated provider names in sorted order.
func (r Record) providers() []string {
	names := make([]string, 0, len(r.Associations))
	for name := range r.Associations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func setIfPresent(fields map[string]string, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
