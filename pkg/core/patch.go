package core

import (
	"maps"
	"strconv"
)

// ApplyPatch returns a copy of def with patch merged in. def itself is not
// modified. The patch must target def by name (and GUID when set) and start
// from def's current version.
func ApplyPatch(def TypeDef, patch *TypeDefPatch) (TypeDef, error) {
	const op = "ApplyPatch"
	if def == nil {
		return nil, &ArchiveError{Kind: ErrMissingType, Op: op, Category: "TypeDef"}
	}
	if patch == nil {
		return def, nil
	}

	out := CloneTypeDef(def)
	base := out.Base()

	if patch.TypeDefName != base.Name || (patch.TypeDefGUID != "" && patch.TypeDefGUID != base.GUID) {
		return nil, &ArchiveError{
			Kind: ErrPatchMismatch, Op: op, Category: "TypeDefPatch", ID: patch.TypeDefName,
			Existing: base.Name + "/" + base.GUID, New: patch.TypeDefName + "/" + patch.TypeDefGUID,
		}
	}
	if patch.ApplyToVersion != base.Version || patch.UpdateToVersion <= patch.ApplyToVersion {
		return nil, &ArchiveError{
			Kind: ErrPatchMismatch, Op: op, Category: "TypeDefPatch", ID: patch.TypeDefName,
			Existing: versionString(base.Version),
			New:      versionString(patch.ApplyToVersion) + "->" + versionString(patch.UpdateToVersion),
		}
	}

	for _, attr := range patch.PropertyDefinitions {
		if base.Attribute(attr.Name) != nil {
			return nil, &ArchiveError{Kind: ErrDuplicateAttribute, Op: op, Category: "TypeDefPatch", ID: base.Name + "." + attr.Name}
		}
		base.Properties = append(base.Properties, attr)
	}

	if patch.Description != "" {
		base.Description = patch.Description
	}
	if patch.DescriptionGUID != "" {
		base.DescriptionGUID = patch.DescriptionGUID
	}
	if patch.Status != "" {
		base.Status = patch.Status
	}
	if len(patch.TypeDefOptions) > 0 {
		if base.Options == nil {
			base.Options = make(map[string]string, len(patch.TypeDefOptions))
		}
		maps.Copy(base.Options, patch.TypeDefOptions)
	}
	if len(patch.ValidInstanceStatusList) > 0 {
		base.ValidInstanceStatusList = append([]InstanceStatus(nil), patch.ValidInstanceStatusList...)
	}
	if patch.InitialStatus != "" {
		base.InitialStatus = patch.InitialStatus
	}

	switch d := out.(type) {
	case *RelationshipDef:
		if err := patchEnd(&d.End1, patch.EndDef1, base.Name); err != nil {
			return nil, err
		}
		if err := patchEnd(&d.End2, patch.EndDef2, base.Name); err != nil {
			return nil, err
		}
	case *ClassificationDef:
		for _, link := range patch.ValidEntityDefs {
			if !containsLink(d.ValidEntityDefs, link) {
				d.ValidEntityDefs = append(d.ValidEntityDefs, link)
			}
		}
	}

	base.Version = patch.UpdateToVersion
	base.VersionName = patch.NewVersionName
	if patch.UpdatedBy != "" {
		base.UpdatedBy = patch.UpdatedBy
	}
	if patch.UpdateTime != nil {
		t := *patch.UpdateTime
		base.UpdateTime = &t
	}
	return out, nil
}

func patchEnd(end *RelationshipEndDef, update *RelationshipEndDef, typeName string) error {
	if update == nil {
		return nil
	}
	if update.EntityType.Name != "" && update.EntityType.Name != end.EntityType.Name {
		return &ArchiveError{
			Kind: ErrPatchMismatch, Op: "ApplyPatch", Category: "RelationshipEndDef", ID: typeName,
			Existing: end.EntityType.Name, New: update.EntityType.Name,
		}
	}
	if update.AttributeName != "" {
		end.AttributeName = update.AttributeName
	}
	if update.AttributeDescription != "" {
		end.AttributeDescription = update.AttributeDescription
	}
	if update.AttributeDescriptionGUID != "" {
		end.AttributeDescriptionGUID = update.AttributeDescriptionGUID
	}
	if update.Cardinality != "" {
		end.Cardinality = update.Cardinality
	}
	return nil
}

func containsLink(links []TypeDefLink, link TypeDefLink) bool {
	for _, l := range links {
		if l.Name == link.Name {
			return true
		}
	}
	return false
}

// CloneTypeDef returns a copy of def that shares no slices or maps with it.
func CloneTypeDef(def TypeDef) TypeDef {
	switch d := def.(type) {
	case *EntityDef:
		c := *d
		c.TypeDefBase = cloneBase(d.TypeDefBase)
		return &c
	case *RelationshipDef:
		c := *d
		c.TypeDefBase = cloneBase(d.TypeDefBase)
		return &c
	case *ClassificationDef:
		c := *d
		c.TypeDefBase = cloneBase(d.TypeDefBase)
		c.ValidEntityDefs = append([]TypeDefLink(nil), d.ValidEntityDefs...)
		return &c
	}
	return def
}

func cloneBase(b TypeDefBase) TypeDefBase {
	if b.SuperType != nil {
		st := *b.SuperType
		b.SuperType = &st
	}
	b.Options = maps.Clone(b.Options)
	b.ValidInstanceStatusList = append([]InstanceStatus(nil), b.ValidInstanceStatusList...)
	b.Properties = append([]TypeDefAttribute(nil), b.Properties...)
	return b
}

func versionString(v int64) string {
	return "v" + strconv.FormatInt(v, 10)
}
