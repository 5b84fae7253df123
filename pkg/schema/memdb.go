package schema

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-memdb"
	"github.com/rs/zerolog"
)

const (
	tableSpace = "space"
	tableType  = "schemaType"

	indexID        = "id"
	indexSpaceKind = "spaceKind"
)

type typeKind string

const (
	kindTag  typeKind = "tag"
	kindEdge typeKind = "edge"
)

type space struct {
	name string
	id   uint32
}

type schemaType struct {
	space string
	kind  string
	name  string
	props []PropDef
}

func (st schemaType) MarshalZerologObject(e *zerolog.Event) {
	e.Str("space", st.space).Str("kind", st.kind).Str("name", st.name).Int("props", len(st.props))
}

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableSpace: {
			Name: tableSpace,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "name"},
				},
			},
		},
		tableType: {
			Name: tableType,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:   indexID,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "space"},
							&memdb.StringFieldIndex{Field: "kind"},
							&memdb.StringFieldIndex{Field: "name"},
						},
					},
				},
				indexSpaceKind: {
					Name:   indexSpaceKind,
					Unique: false,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "space"},
							&memdb.StringFieldIndex{Field: "kind"},
						},
					},
				},
			},
		},
	},
}

// MemStore is an in-memory Reader backed by go-memdb. Writes are transactional so a
// definition that fails validation leaves no partial state behind.
type MemStore struct {
	db     *memdb.MemDB
	nextID uint32
}

var _ Reader = (*MemStore)(nil)

// NewMemStore creates an empty store.
func NewMemStore() (*MemStore, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, fmt.Errorf("unable to create schema store: %w", err)
	}
	return &MemStore{db: db}, nil
}

// TypeDefinition declares a tag or edge type with its properties.
type TypeDefinition struct {
	Name  string
	Props []PropDef
}

// SpaceDefinition declares a space and everything in it.
type SpaceDefinition struct {
	Name  string
	Tags  []TypeDefinition
	Edges []TypeDefinition
}

// NewMemStoreFromDefinitions creates a store populated with the given spaces.
func NewMemStoreFromDefinitions(defs ...SpaceDefinition) (*MemStore, error) {
	store, err := NewMemStore()
	if err != nil {
		return nil, err
	}

	for _, def := range defs {
		if _, err := store.CreateSpace(def.Name); err != nil {
			return nil, err
		}
		for _, tag := range def.Tags {
			if err := store.CreateTag(def.Name, tag.Name, tag.Props...); err != nil {
				return nil, err
			}
		}
		for _, edge := range def.Edges {
			if err := store.CreateEdge(def.Name, edge.Name, edge.Props...); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}

// CreateSpace registers a new space and returns its info.
func (ms *MemStore) CreateSpace(name string) (SpaceInfo, error) {
	if name == "" {
		return SpaceInfo{}, errors.New("space name must not be empty")
	}

	txn := ms.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableSpace, indexID, name)
	if err != nil {
		return SpaceInfo{}, fmt.Errorf("unable to read space: %w", err)
	}
	if existing != nil {
		return SpaceInfo{}, fmt.Errorf("space `%s` already exists", name)
	}

	ms.nextID++
	created := &space{name: name, id: ms.nextID}
	if err := txn.Insert(tableSpace, created); err != nil {
		return SpaceInfo{}, fmt.Errorf("unable to create space: %w", err)
	}
	txn.Commit()
	return SpaceInfo{ID: created.id, Name: name}, nil
}

// CreateTag declares a tag in an existing space.
func (ms *MemStore) CreateTag(spaceName, name string, props ...PropDef) error {
	return ms.createType(spaceName, kindTag, name, props)
}

// CreateEdge declares an edge type in an existing space.
func (ms *MemStore) CreateEdge(spaceName, name string, props ...PropDef) error {
	return ms.createType(spaceName, kindEdge, name, props)
}

func (ms *MemStore) createType(spaceName string, kind typeKind, name string, props []PropDef) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}

	txn := ms.db.Txn(true)
	defer txn.Abort()

	if err := requireSpace(txn, spaceName); err != nil {
		return err
	}

	existing, err := txn.First(tableType, indexID, spaceName, string(kind), name)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", kind, err)
	}
	if existing != nil {
		return fmt.Errorf("%s `%s` already exists in space `%s`", kind, name, spaceName)
	}

	seen := make(map[string]struct{}, len(props))
	for _, prop := range props {
		if _, ok := seen[prop.Name]; ok {
			return fmt.Errorf("duplicate property `%s` on %s `%s`", prop.Name, kind, name)
		}
		seen[prop.Name] = struct{}{}
	}

	created := &schemaType{
		space: spaceName,
		kind:  string(kind),
		name:  name,
		props: append([]PropDef(nil), props...),
	}
	if err := txn.Insert(tableType, created); err != nil {
		return fmt.Errorf("unable to create %s: %w", kind, err)
	}
	txn.Commit()
	return nil
}

func requireSpace(txn *memdb.Txn, spaceName string) error {
	found, err := txn.First(tableSpace, indexID, spaceName)
	if err != nil {
		return fmt.Errorf("unable to read space: %w", err)
	}
	if found == nil {
		return NewSpaceNotFoundErr(spaceName)
	}
	return nil
}

func (ms *MemStore) LookupSpace(spaceName string) (SpaceInfo, error) {
	txn := ms.db.Txn(false)
	defer txn.Abort()

	found, err := txn.First(tableSpace, indexID, spaceName)
	if err != nil {
		return SpaceInfo{}, fmt.Errorf("unable to read space: %w", err)
	}
	if found == nil {
		return SpaceInfo{}, NewSpaceNotFoundErr(spaceName)
	}
	s := found.(*space)
	return SpaceInfo{ID: s.id, Name: s.name}, nil
}

func (ms *MemStore) ListTags(spaceName string) ([]string, error) {
	return ms.listTypes(spaceName, kindTag)
}

func (ms *MemStore) ListEdges(spaceName string) ([]string, error) {
	return ms.listTypes(spaceName, kindEdge)
}

func (ms *MemStore) listTypes(spaceName string, kind typeKind) ([]string, error) {
	txn := ms.db.Txn(false)
	defer txn.Abort()

	if err := requireSpace(txn, spaceName); err != nil {
		return nil, err
	}

	it, err := txn.Get(tableType, indexSpaceKind, spaceName, string(kind))
	if err != nil {
		return nil, fmt.Errorf("unable to list %ss: %w", kind, err)
	}

	var names []string
	for raw := it.Next(); raw != nil; raw = it.Next() {
		names = append(names, raw.(*schemaType).name)
	}
	return names, nil
}

func (ms *MemStore) TagProps(spaceName, tag string) ([]PropDef, error) {
	return ms.typeProps(spaceName, kindTag, tag)
}

func (ms *MemStore) EdgeProps(spaceName, edge string) ([]PropDef, error) {
	return ms.typeProps(spaceName, kindEdge, edge)
}

func (ms *MemStore) typeProps(spaceName string, kind typeKind, name string) ([]PropDef, error) {
	txn := ms.db.Txn(false)
	defer txn.Abort()

	if err := requireSpace(txn, spaceName); err != nil {
		return nil, err
	}

	found, err := txn.First(tableType, indexID, spaceName, string(kind), name)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", kind, err)
	}
	if found == nil {
		if kind == kindTag {
			return nil, NewTagNotFoundErr(spaceName, name)
		}
		return nil, NewEdgeNotFoundErr(spaceName, name)
	}
	return append([]PropDef(nil), found.(*schemaType).props...), nil
}
