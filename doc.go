/*
Package enum defines enumeration types whose values are interned singletons.

A Registry holds every value of one enumeration type. It is created once, at package level,
under one of three policies:

  - NewStrict and NewNamed declare a closed set of members, each producing a payload.
  - NewOrdinal declares a closed set of names whose payloads are their positions plus a base.
  - NewDynamic represents any payload, creating values on demand.

A Registry is declared with a kind, an empty struct type naming the enumeration:

	type dayOfWeek struct{}

	var (
		DaysOfWeek = enum.NewNamed[dayOfWeek]("DayOfWeek", []string{"Monday", "Tuesday"})
		Monday     = DaysOfWeek.Must("Monday")
	)

Members are discovered lazily, the first time a Registry is used.
Each payload maps to exactly one *Value, so values compare by pointer:

	v, _ := DaysOfWeek.Intern("Monday")
	v == Monday // true

Every value serializes as a token naming its type and its payload,

	DayOfWeek::{s:6:"Monday";}

and member values also by name, as in DayOfWeek::Monday.
Decode and ParseName restore the interned value from either form.
Types form a hierarchy below Root through Abstract and WithParent;
a Codec allowing subtypes accepts a value of any descendant of the expected Type.

Ref carries a value as a struct field through encoding/json, encoding/text and database/sql.
*/
package enum
