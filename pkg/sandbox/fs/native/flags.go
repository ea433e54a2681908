// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"fmt"
	"strings"
)

type flagName[T ~uint32] struct {
	flag T
	name string
}

// formatFlags renders v as a comma separated list of flag names. Bits
// without a name are appended in hexadecimal.
func formatFlags[T ~uint32](v T, names []flagName[T], zero string) string {
	if v == 0 {
		return zero
	}

	var parts []string
	rest := v
	for _, n := range names {
		if n.flag != 0 && v&n.flag == n.flag && rest&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return strings.Join(parts, ", ")
}

// AccessMask mirrors ACCESS_MASK for file and object-manager objects
type AccessMask uint32

// ACCESS_MASK bits
const (
	FileReadData         AccessMask = 0x00000001
	FileWriteData        AccessMask = 0x00000002
	FileAppendData       AccessMask = 0x00000004
	FileReadEa           AccessMask = 0x00000008
	FileWriteEa          AccessMask = 0x00000010
	FileExecute          AccessMask = 0x00000020
	FileDeleteChild      AccessMask = 0x00000040
	FileReadAttributes   AccessMask = 0x00000080
	FileWriteAttributes  AccessMask = 0x00000100
	Delete               AccessMask = 0x00010000
	ReadControl          AccessMask = 0x00020000
	WriteDac             AccessMask = 0x00040000
	WriteOwner           AccessMask = 0x00080000
	Synchronize          AccessMask = 0x00100000
	AccessSystemSecurity AccessMask = 0x01000000
	MaximumAllowed       AccessMask = 0x02000000
	GenericAll           AccessMask = 0x10000000
	GenericExecute       AccessMask = 0x20000000
	GenericWrite         AccessMask = 0x40000000
	GenericRead          AccessMask = 0x80000000
)

var accessMaskNames = []flagName[AccessMask]{
	{GenericRead, "GenericRead"},
	{GenericWrite, "GenericWrite"},
	{GenericExecute, "GenericExecute"},
	{GenericAll, "GenericAll"},
	{MaximumAllowed, "MaximumAllowed"},
	{AccessSystemSecurity, "AccessSystemSecurity"},
	{Synchronize, "Synchronize"},
	{WriteOwner, "WriteOwner"},
	{WriteDac, "WriteDac"},
	{ReadControl, "ReadControl"},
	{Delete, "Delete"},
	{FileWriteAttributes, "WriteAttributes"},
	{FileReadAttributes, "ReadAttributes"},
	{FileDeleteChild, "DeleteChild"},
	{FileExecute, "Execute"},
	{FileWriteEa, "WriteEa"},
	{FileReadEa, "ReadEa"},
	{FileAppendData, "AppendData"},
	{FileWriteData, "WriteData"},
	{FileReadData, "ReadData"},
}

func (m AccessMask) String() string {
	return formatFlags(m, accessMaskNames, "0")
}

// ShareAccess mirrors the ShareAccess argument of NtCreateFile/NtOpenFile
type ShareAccess uint32

// FILE_SHARE_* bits
const (
	ShareRead   ShareAccess = 0x00000001
	ShareWrite  ShareAccess = 0x00000002
	ShareDelete ShareAccess = 0x00000004
)

var shareAccessNames = []flagName[ShareAccess]{
	{ShareRead, "Read"},
	{ShareWrite, "Write"},
	{ShareDelete, "Delete"},
}

func (s ShareAccess) String() string {
	return formatFlags(s, shareAccessNames, "None")
}

// CreateDisposition mirrors the CreateDisposition argument of NtCreateFile
type CreateDisposition uint32

// FILE_* dispositions, see wdm.h
const (
	FileSupersede   CreateDisposition = 0x00000000
	FileOpen        CreateDisposition = 0x00000001
	FileCreate      CreateDisposition = 0x00000002
	FileOpenIf      CreateDisposition = 0x00000003
	FileOverwrite   CreateDisposition = 0x00000004
	FileOverwriteIf CreateDisposition = 0x00000005
)

func (d CreateDisposition) String() string {
	switch d {
	case FileSupersede:
		return "Supersede"
	case FileOpen:
		return "Open"
	case FileCreate:
		return "Create"
	case FileOpenIf:
		return "OpenIf"
	case FileOverwrite:
		return "Overwrite"
	case FileOverwriteIf:
		return "OverwriteIf"
	default:
		return fmt.Sprintf("0x%X", uint32(d))
	}
}

// CreateOptions mirrors the CreateOptions/OpenOptions arguments
type CreateOptions uint32

// FILE_* create options, see wdm.h
const (
	FileDirectoryFile           CreateOptions = 0x00000001
	FileWriteThrough            CreateOptions = 0x00000002
	FileSequentialOnly          CreateOptions = 0x00000004
	FileNoIntermediateBuffering CreateOptions = 0x00000008
	FileSynchronousIoAlert      CreateOptions = 0x00000010
	FileSynchronousIoNonalert   CreateOptions = 0x00000020
	FileNonDirectoryFile        CreateOptions = 0x00000040
	FileCreateTreeConnection    CreateOptions = 0x00000080
	FileCompleteIfOplocked      CreateOptions = 0x00000100
	FileNoEaKnowledge           CreateOptions = 0x00000200
	FileOpenRemoteInstance      CreateOptions = 0x00000400
	FileRandomAccess            CreateOptions = 0x00000800
	FileDeleteOnClose           CreateOptions = 0x00001000
	FileOpenByFileID            CreateOptions = 0x00002000
	FileOpenForBackupIntent     CreateOptions = 0x00004000
	FileNoCompression           CreateOptions = 0x00008000
	FileReserveOpfilter         CreateOptions = 0x00100000
	FileOpenReparsePoint        CreateOptions = 0x00200000
	FileOpenNoRecall            CreateOptions = 0x00400000
	FileOpenForFreeSpaceQuery   CreateOptions = 0x00800000
)

var createOptionsNames = []flagName[CreateOptions]{
	{FileDirectoryFile, "DirectoryFile"},
	{FileWriteThrough, "WriteThrough"},
	{FileSequentialOnly, "SequentialOnly"},
	{FileNoIntermediateBuffering, "NoIntermediateBuffering"},
	{FileSynchronousIoAlert, "SynchronousIoAlert"},
	{FileSynchronousIoNonalert, "SynchronousIoNonalert"},
	{FileNonDirectoryFile, "NonDirectoryFile"},
	{FileCreateTreeConnection, "CreateTreeConnection"},
	{FileCompleteIfOplocked, "CompleteIfOplocked"},
	{FileNoEaKnowledge, "NoEaKnowledge"},
	{FileOpenRemoteInstance, "OpenRemoteInstance"},
	{FileRandomAccess, "RandomAccess"},
	{FileDeleteOnClose, "DeleteOnClose"},
	{FileOpenByFileID, "OpenByFileId"},
	{FileOpenForBackupIntent, "OpenForBackupIntent"},
	{FileNoCompression, "NoCompression"},
	{FileReserveOpfilter, "ReserveOpfilter"},
	{FileOpenReparsePoint, "OpenReparsePoint"},
	{FileOpenNoRecall, "OpenNoRecall"},
	{FileOpenForFreeSpaceQuery, "OpenForFreeSpaceQuery"},
}

func (o CreateOptions) String() string {
	return formatFlags(o, createOptionsNames, "0")
}

// FileAttributes mirrors the FILE_ATTRIBUTE_* bits
type FileAttributes uint32

// FILE_ATTRIBUTE_* bits
const (
	FileAttributeReadOnly          FileAttributes = 0x00000001
	FileAttributeHidden            FileAttributes = 0x00000002
	FileAttributeSystem            FileAttributes = 0x00000004
	FileAttributeDirectory         FileAttributes = 0x00000010
	FileAttributeArchive           FileAttributes = 0x00000020
	FileAttributeDevice            FileAttributes = 0x00000040
	FileAttributeNormal            FileAttributes = 0x00000080
	FileAttributeTemporary         FileAttributes = 0x00000100
	FileAttributeSparseFile        FileAttributes = 0x00000200
	FileAttributeReparsePoint      FileAttributes = 0x00000400
	FileAttributeCompressed        FileAttributes = 0x00000800
	FileAttributeOffline           FileAttributes = 0x00001000
	FileAttributeNotContentIndexed FileAttributes = 0x00002000
	FileAttributeEncrypted         FileAttributes = 0x00004000
)

var fileAttributesNames = []flagName[FileAttributes]{
	{FileAttributeReadOnly, "ReadOnly"},
	{FileAttributeHidden, "Hidden"},
	{FileAttributeSystem, "System"},
	{FileAttributeDirectory, "Directory"},
	{FileAttributeArchive, "Archive"},
	{FileAttributeDevice, "Device"},
	{FileAttributeNormal, "Normal"},
	{FileAttributeTemporary, "Temporary"},
	{FileAttributeSparseFile, "SparseFile"},
	{FileAttributeReparsePoint, "ReparsePoint"},
	{FileAttributeCompressed, "Compressed"},
	{FileAttributeOffline, "Offline"},
	{FileAttributeNotContentIndexed, "NotContentIndexed"},
	{FileAttributeEncrypted, "Encrypted"},
}

func (a FileAttributes) String() string {
	return formatFlags(a, fileAttributesNames, "0")
}

// HandleAttributes mirrors the Attributes member of OBJECT_ATTRIBUTES
type HandleAttributes uint32

// OBJ_* bits, see ntdef.h
const (
	ObjInherit          HandleAttributes = 0x00000002
	ObjPermanent        HandleAttributes = 0x00000010
	ObjExclusive        HandleAttributes = 0x00000020
	ObjCaseInsensitive  HandleAttributes = 0x00000040
	ObjOpenIf           HandleAttributes = 0x00000080
	ObjOpenLink         HandleAttributes = 0x00000100
	ObjKernelHandle     HandleAttributes = 0x00000200
	ObjForceAccessCheck HandleAttributes = 0x00000400
	ObjValidAttributes  HandleAttributes = 0x000007F2
)

var handleAttributesNames = []flagName[HandleAttributes]{
	{ObjInherit, "Inherit"},
	{ObjPermanent, "Permanent"},
	{ObjExclusive, "Exclusive"},
	{ObjCaseInsensitive, "CaseInsensitive"},
	{ObjOpenIf, "OpenIf"},
	{ObjOpenLink, "OpenLink"},
	{ObjKernelHandle, "KernelHandle"},
	{ObjForceAccessCheck, "ForceAccessCheck"},
}

func (a HandleAttributes) String() string {
	return formatFlags(a, handleAttributesNames, "0")
}
