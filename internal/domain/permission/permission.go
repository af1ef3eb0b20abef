// Package permission holds the single role × resource × action table that
// every usecase consults before touching a record. A rule names the
// relationship the actor must hold to the resource; the usecase is
// responsible for evaluating that relationship against the store.
package permission

// Resource identifies a protected record type.
type Resource string

const (
	ResourcePet           Resource = "pet"
	ResourceMedicalRecord Resource = "medical_record"
	ResourceGrant         Resource = "grant"
	ResourceProfile       Resource = "profile"
)

// Action identifies what the actor wants to do with the resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Relationship is the link the actor must hold to the target resource for
// the action to be allowed.
type Relationship int

const (
	// RelNone: the role alone is sufficient.
	RelNone Relationship = iota
	// RelOwner: the actor must own the pet the resource belongs to.
	RelOwner
	// RelGranted: the actor must appear in the pet's grant list.
	RelGranted
	// RelSelf: the actor may only act on their own account.
	RelSelf
)

type ruleKey struct {
	roleID   int
	resource Resource
	action   Action
}

// The closed permission matrix. Anything absent is denied.
var matrix map[ruleKey]Relationship

func init() {
	matrix = make(map[ruleKey]Relationship)

	const (
		owner  = 1
		doctor = 2
	)

	// Pet registry: owners create pets and manage their own.
	allow(owner, ResourcePet, ActionCreate, RelNone)
	allow(owner, ResourcePet, ActionRead, RelOwner)
	allow(owner, ResourcePet, ActionUpdate, RelOwner)
	// Doctors see pets they hold a grant for (dashboard listing).
	allow(doctor, ResourcePet, ActionRead, RelGranted)

	// Grants: only the pet's owner may grant or revoke doctor access.
	allow(owner, ResourceGrant, ActionCreate, RelOwner)
	allow(owner, ResourceGrant, ActionRead, RelOwner)
	allow(owner, ResourceGrant, ActionDelete, RelOwner)

	// Medical records: owners read their pet's history, granted doctors
	// read and mutate it. Pet ownership is irrelevant for doctors.
	allow(owner, ResourceMedicalRecord, ActionRead, RelOwner)
	allow(doctor, ResourceMedicalRecord, ActionRead, RelGranted)
	allow(doctor, ResourceMedicalRecord, ActionCreate, RelGranted)
	allow(doctor, ResourceMedicalRecord, ActionUpdate, RelGranted)
	allow(doctor, ResourceMedicalRecord, ActionDelete, RelGranted)

	// Profiles: any authenticated actor edits only their own account.
	allow(owner, ResourceProfile, ActionRead, RelSelf)
	allow(owner, ResourceProfile, ActionUpdate, RelSelf)
	allow(doctor, ResourceProfile, ActionRead, RelSelf)
	allow(doctor, ResourceProfile, ActionUpdate, RelSelf)
}

func allow(roleID int, res Resource, act Action, rel Relationship) {
	matrix[ruleKey{roleID: roleID, resource: res, action: act}] = rel
}

// Check reports whether the role may perform the action on the resource at
// all, and if so which relationship to the resource it must hold.
func Check(roleID int, res Resource, act Action) (Relationship, bool) {
	rel, ok := matrix[ruleKey{roleID: roleID, resource: res, action: act}]
	return rel, ok
}
