// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import "fmt"

// ImpersonationLevel mirrors SECURITY_IMPERSONATION_LEVEL
type ImpersonationLevel uint32

// SECURITY_IMPERSONATION_LEVEL values
const (
	SecurityAnonymous ImpersonationLevel = iota
	SecurityIdentification
	SecurityImpersonation
	SecurityDelegation
)

func (l ImpersonationLevel) String() string {
	switch l {
	case SecurityAnonymous:
		return "Anonymous"
	case SecurityIdentification:
		return "Identification"
	case SecurityImpersonation:
		return "Impersonation"
	case SecurityDelegation:
		return "Delegation"
	default:
		return fmt.Sprintf("ImpersonationLevel(%d)", uint32(l))
	}
}

// SecurityQos mirrors SECURITY_QUALITY_OF_SERVICE
type SecurityQos struct {
	Length              uint32
	ImpersonationLevel  ImpersonationLevel
	ContextTrackingMode uint8
	EffectiveOnly       uint8
	_                   [2]byte
}

// SecurityDescriptorControl mirrors SECURITY_DESCRIPTOR_CONTROL
type SecurityDescriptorControl uint16

// SecurityDescriptor mirrors the absolute form of SECURITY_DESCRIPTOR.
// Owner, Group, Sacl and Dacl are borrowed pointers and are not owned by
// the record holding the descriptor.
type SecurityDescriptor struct {
	Revision byte
	Sbz1     byte
	Control  SecurityDescriptorControl
	Owner    uintptr
	Group    uintptr
	Sacl     uintptr
	Dacl     uintptr
}
