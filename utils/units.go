package utils

import (
	"errors"

	"gorm.io/gorm"

	"courier-backend/models/network"
)

// UnitNameMaps loads code -> display-name maps for hubs and branches in two
// queries instead of a lookup per row.
func UnitNameMaps(db *gorm.DB) (map[string]string, map[string]string) {
	hubNames := map[string]string{}
	branchNames := map[string]string{}

	var hubs []network.Hub
	if err := db.Find(&hubs).Error; err == nil {
		for _, h := range hubs {
			hubNames[h.HubCode] = h.HubName
		}
	}
	var branches []network.Branch
	if err := db.Find(&branches).Error; err == nil {
		for _, b := range branches {
			branchNames[b.BranchCode] = b.BranchName
		}
	}
	return hubNames, branchNames
}

// ResolveUnitName maps a unit code to its display name and kind ("Hub" or
// "Branch"). Unknown codes come back as the code itself with a blank kind.
func ResolveUnitName(db *gorm.DB, code string) (string, string) {
	var h network.Hub
	if err := db.Where("hub_code = ?", code).First(&h).Error; err == nil {
		return h.HubName, "Hub"
	}
	var b network.Branch
	if err := db.Where("branch_code = ?", code).First(&b).Error; err == nil {
		return b.BranchName, "Branch"
	}
	return code, ""
}

// ResolveUnitCode maps a destination given as a hub name, branch name or raw
// code to the unit code. Probing order matches the manifest builder: hub by
// name, branch by name, then the value taken as a code.
func ResolveUnitCode(db *gorm.DB, nameOrCode string) (string, error) {
	var h network.Hub
	if err := db.Where("hub_name = ?", nameOrCode).First(&h).Error; err == nil {
		return h.HubCode, nil
	}
	var b network.Branch
	if err := db.Where("branch_name = ?", nameOrCode).First(&b).Error; err == nil {
		return b.BranchCode, nil
	}
	var hc network.Hub
	if err := db.Where("hub_code = ?", nameOrCode).First(&hc).Error; err == nil {
		return hc.HubCode, nil
	}
	var bc network.Branch
	if err := db.Where("branch_code = ?", nameOrCode).First(&bc).Error; err == nil {
		return bc.BranchCode, nil
	}
	return "", errors.New("unknown destination unit: " + nameOrCode)
}
