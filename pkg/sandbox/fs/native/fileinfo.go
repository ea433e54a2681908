// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package native

import (
	"fmt"
	"time"
)

// FileInformationClass mirrors FILE_INFORMATION_CLASS
type FileInformationClass uint32

// FILE_INFORMATION_CLASS values
const (
	FileDirectoryInformation FileInformationClass = iota + 1
	FileFullDirectoryInformation
	FileBothDirectoryInformation
	FileBasicInformationClass
	FileStandardInformation
	FileInternalInformation
	FileEaInformation
	FileAccessInformation
	FileNameInformation
	FileRenameInformation
	FileLinkInformation
	FileNamesInformation
	FileDispositionInformation
	FilePositionInformation
	FileFullEaInformation
	FileModeInformation
	FileAlignmentInformation
	FileAllInformation
	FileAllocationInformation
	FileEndOfFileInformation
	FileAlternateNameInformation
	FileStreamInformation
	FilePipeInformation
	FilePipeLocalInformation
	FilePipeRemoteInformation
	FileMailslotQueryInformation
	FileMailslotSetInformation
	FileCompressionInformation
	FileObjectIDInformation
	FileCompletionInformation
	FileMoveClusterInformation
	FileQuotaInformation
	FileReparsePointInformation
	FileNetworkOpenInformation
	FileAttributeTagInformation
	FileTrackingInformation
	FileIDBothDirectoryInformation
	FileIDFullDirectoryInformation
	FileValidDataLengthInformation
	FileShortNameInformation

	FileHardLinkInformation FileInformationClass = 46
)

var fileInformationClassNames = [...]string{
	FileDirectoryInformation:       "FileDirectoryInformation",
	FileFullDirectoryInformation:   "FileFullDirectoryInformation",
	FileBothDirectoryInformation:   "FileBothDirectoryInformation",
	FileBasicInformationClass:      "FileBasicInformation",
	FileStandardInformation:        "FileStandardInformation",
	FileInternalInformation:        "FileInternalInformation",
	FileEaInformation:              "FileEaInformation",
	FileAccessInformation:          "FileAccessInformation",
	FileNameInformation:            "FileNameInformation",
	FileRenameInformation:          "FileRenameInformation",
	FileLinkInformation:            "FileLinkInformation",
	FileNamesInformation:           "FileNamesInformation",
	FileDispositionInformation:     "FileDispositionInformation",
	FilePositionInformation:        "FilePositionInformation",
	FileFullEaInformation:          "FileFullEaInformation",
	FileModeInformation:            "FileModeInformation",
	FileAlignmentInformation:       "FileAlignmentInformation",
	FileAllInformation:             "FileAllInformation",
	FileAllocationInformation:      "FileAllocationInformation",
	FileEndOfFileInformation:       "FileEndOfFileInformation",
	FileAlternateNameInformation:   "FileAlternateNameInformation",
	FileStreamInformation:          "FileStreamInformation",
	FilePipeInformation:            "FilePipeInformation",
	FilePipeLocalInformation:       "FilePipeLocalInformation",
	FilePipeRemoteInformation:      "FilePipeRemoteInformation",
	FileMailslotQueryInformation:   "FileMailslotQueryInformation",
	FileMailslotSetInformation:     "FileMailslotSetInformation",
	FileCompressionInformation:     "FileCompressionInformation",
	FileObjectIDInformation:        "FileObjectIdInformation",
	FileCompletionInformation:      "FileCompletionInformation",
	FileMoveClusterInformation:     "FileMoveClusterInformation",
	FileQuotaInformation:           "FileQuotaInformation",
	FileReparsePointInformation:    "FileReparsePointInformation",
	FileNetworkOpenInformation:     "FileNetworkOpenInformation",
	FileAttributeTagInformation:    "FileAttributeTagInformation",
	FileTrackingInformation:        "FileTrackingInformation",
	FileIDBothDirectoryInformation: "FileIdBothDirectoryInformation",
	FileIDFullDirectoryInformation: "FileIdFullDirectoryInformation",
	FileValidDataLengthInformation: "FileValidDataLengthInformation",
	FileShortNameInformation:       "FileShortNameInformation",
	FileHardLinkInformation:        "FileHardLinkInformation",
}

func (c FileInformationClass) String() string {
	if int(c) < len(fileInformationClassNames) && fileInformationClassNames[c] != "" {
		return fileInformationClassNames[c]
	}
	return fmt.Sprintf("FileInformationClass(%d)", uint32(c))
}

// epochDelta is the number of 100ns intervals between 1601-01-01 and 1970-01-01
const epochDelta = 116444736000000000

// Filetime is a LARGE_INTEGER timestamp counted in 100ns intervals since 1601
type Filetime int64

// Time converts the timestamp to UTC
func (t Filetime) Time() time.Time {
	return time.Unix(0, (int64(t)-epochDelta)*100).UTC()
}

func (t Filetime) String() string {
	if t == 0 {
		return "0"
	}
	return t.Time().Format(time.RFC3339Nano)
}

// FileBasicInformation mirrors FILE_BASIC_INFORMATION
type FileBasicInformation struct {
	CreationTime   Filetime
	LastAccessTime Filetime
	LastWriteTime  Filetime
	ChangeTime     Filetime
	FileAttributes FileAttributes
	_              uint32
}

func (i FileBasicInformation) String() string {
	return fmt.Sprintf("CreationTime: %s, LastAccessTime: %s, LastWriteTime: %s, ChangeTime: %s, FileAttributes: %s",
		i.CreationTime, i.LastAccessTime, i.LastWriteTime, i.ChangeTime, i.FileAttributes)
}
